// Command catalog signs in to the panel and prints the service catalog as
// platform, category and service lines.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/stories/catalog"
	"smm-storefront/internal/stories/users"
)

func main() {
	baseURL := flag.String("panel", "http://127.0.0.1:9000/api/v1", "panel API base URL")
	username := flag.String("user", "", "panel username")
	password := flag.String("password", os.Getenv("PANEL_PASSWORD"), "panel password (or PANEL_PASSWORD)")
	asJSON := flag.Bool("json", false, "print the tree as JSON")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("credentials are required: -user <name> and -password or PANEL_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	panel := panelapi.NewClient(*baseURL, 15*time.Second, logger)
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, time.Minute, logger)

	userService := users.NewService(panel, cache, logger)
	sess, err := userService.Login(ctx, users.Credentials{Username: *username, Password: *password})
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	defer func() {
		if err := userService.Logout(context.Background(), sess); err != nil {
			log.Printf("logout: %v", err)
		}
	}()

	tree, err := catalog.NewService(panel, cache, logger).Tree(ctx, sess)
	if err != nil {
		log.Printf("catalog: %v", err)
		return
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			log.Printf("encode: %v", err)
		}
		return
	}

	for _, platform := range tree {
		fmt.Println(platform.Platform)
		for _, category := range platform.Categories {
			fmt.Printf("  %s\n", category.Name)
			for _, svc := range category.Services {
				fmt.Printf("    #%d %s  rate %s  min %d  max %d\n", svc.ID, svc.Name, svc.Rate.StringFixed(4), svc.Min, svc.Max)
			}
		}
	}
}
