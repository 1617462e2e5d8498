package selector

import (
	"strconv"
	"strings"
)

// Option is either Text or Record. Dispatch with a type switch.
type Option interface {
	Label() string
	Value() string
	isOption()
}

type Text string

func (t Text) Label() string { return string(t) }
func (t Text) Value() string { return string(t) }
func (Text) isOption()       {}

// Record is the slice of a catalog service the selector needs to render and
// project.
type Record struct {
	ID       int64
	Name     string
	Platform string
	Category string
	Badges   []string
}

func (r Record) Label() string { return r.Name }
func (r Record) Value() string { return strconv.FormatInt(r.ID, 10) }
func (Record) isOption()       {}

// Projection picks which field of a detail record preselects an option.
type Projection int

const (
	ProjectWhole Projection = iota
	ProjectPlatform
	ProjectCategory
)

func (p Projection) String() string {
	switch p {
	case ProjectPlatform:
		return "platform"
	case ProjectCategory:
		return "category"
	default:
		return "whole"
	}
}

func (p Projection) apply(r Record) Option {
	switch p {
	case ProjectPlatform:
		return Text(r.Platform)
	case ProjectCategory:
		return Text(r.Category)
	default:
		return r
	}
}

func Equal(a, b Option) bool {
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Record:
		bv, ok := b.(Record)
		return ok && av.ID == bv.ID
	default:
		return false
	}
}

func Texts(values []string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

// IconFor maps a platform name to its static icon path.
func IconFor(platform string) string {
	slug := strings.ToLower(strings.TrimSpace(platform))
	slug = strings.Join(strings.Fields(slug), "-")
	if slug == "" {
		return ""
	}
	return "/static/icons/" + slug + ".svg"
}
