package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
)

type fakePanel struct {
	groups      []panelapi.CategoryGroup
	detail      *panelapi.Product
	err         error
	listCalls   int
	detailCalls int
}

func (f *fakePanel) ListProducts(_ context.Context, _ string) ([]panelapi.CategoryGroup, error) {
	f.listCalls++
	return f.groups, f.err
}

func (f *fakePanel) ProductDetail(_ context.Context, _ string, _ int64) (*panelapi.Product, error) {
	f.detailCalls++
	return f.detail, f.err
}

func newTestService(panel *fakePanel) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, 2*time.Minute, logger)
	return NewService(panel, cache, logger)
}

func panelGroups() []panelapi.CategoryGroup {
	return []panelapi.CategoryGroup{
		{Category: "Views", Services: []panelapi.Product{
			{ID: 10, Name: "YouTube Views", Platform: "YouTube", Rate: decimal.RequireFromString("0.5"), Min: 100, Max: 1000, Refill: true},
		}},
	}
}

func TestCatalogIsCachedPerToken(t *testing.T) {
	panel := &fakePanel{groups: panelGroups()}
	svc := newTestService(panel)
	sess := session.New("tok", nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		groups, err := svc.Catalog(ctx, sess)
		if err != nil {
			t.Fatalf("Catalog() error = %v", err)
		}
		if len(groups) != 1 || groups[0].Services[0].Category != "Views" {
			t.Fatalf("Catalog() = %+v", groups)
		}
	}
	if panel.listCalls != 1 {
		t.Errorf("ListProducts calls = %d, want 1", panel.listCalls)
	}

	if _, err := svc.Catalog(ctx, session.New("other", nil)); err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if panel.listCalls != 2 {
		t.Errorf("ListProducts calls after token switch = %d, want 2", panel.listCalls)
	}
}

func TestProductByID(t *testing.T) {
	tests := []struct {
		name        string
		id          int64
		detail      *panelapi.Product
		wantName    string
		wantErr     error
		detailCalls int
	}{
		{name: "found in catalog", id: 10, wantName: "YouTube Views"},
		{
			name:        "falls back to panel",
			id:          99,
			detail:      &panelapi.Product{ID: 99, Name: "Hidden", Category: "Misc"},
			wantName:    "Hidden",
			detailCalls: 1,
		},
		{name: "missing everywhere", id: 99, wantErr: ErrServiceNotFound, detailCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := &fakePanel{groups: panelGroups(), detail: tt.detail}
			svc := newTestService(panel)

			got, err := svc.ProductByID(context.Background(), session.New("tok", nil), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("ProductByID() error = %v", err)
				}
				if got.Name != tt.wantName {
					t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
				}
			}
			if panel.detailCalls != tt.detailCalls {
				t.Errorf("ProductDetail calls = %d, want %d", panel.detailCalls, tt.detailCalls)
			}
		})
	}
}

func TestCascadeFromService(t *testing.T) {
	panel := &fakePanel{groups: panelGroups()}
	svc := newTestService(panel)

	c, err := svc.Cascade(context.Background(), session.New("tok", nil), 10)
	if err != nil {
		t.Fatalf("Cascade() error = %v", err)
	}
	sel := c.Selection()
	if sel.Product == nil || sel.Product.ID != 10 {
		t.Errorf("selection = %+v, want service 10", sel)
	}
	view := c.View("")
	if len(view.Services) != 1 || view.Services[0].Badges[0] != BadgeRefill {
		t.Errorf("service view = %+v", view.Services)
	}
}

func TestCatalogPanelError(t *testing.T) {
	boom := &panelapi.Error{Status: 500, Message: "down"}
	svc := newTestService(&fakePanel{err: boom})

	_, err := svc.Catalog(context.Background(), session.New("tok", nil))
	if panelapi.StatusOf(err) != 500 {
		t.Errorf("StatusOf(err) = %d, want 500", panelapi.StatusOf(err))
	}
}
