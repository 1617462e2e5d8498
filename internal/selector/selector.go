package selector

import (
	"errors"
	"strings"
)

var ErrUnknownOption = errors.New("option is not in the list")

type State int

const (
	Uninitialized State = iota
	DefaultSelected
	DetailApplied
	UserSelected
)

func (s State) String() string {
	switch s {
	case DefaultSelected:
		return "default_selected"
	case DetailApplied:
		return "detail_applied"
	case UserSelected:
		return "user_selected"
	default:
		return "uninitialized"
	}
}

type Config struct {
	WithImage  bool
	WithBadges bool

	// Default wins over Detail when it is present in the options.
	Default Option

	// Detail preselects the projected option once, on the first Sync that
	// finds it in the options.
	Detail     *Record
	Projection Projection

	// OnSelect is invoked once per selection, automatic or user driven.
	OnSelect func(Option)
}

// Selector is a single-choice list. Automatic selection happens only in Sync
// and only while nothing is selected.
type Selector struct {
	cfg           Config
	options       []Option
	selected      Option
	state         State
	detailPending bool
}

func New(cfg Config) *Selector {
	return &Selector{
		cfg:           cfg,
		detailPending: cfg.Detail != nil,
	}
}

// SetOptions replaces the list. A selection that is no longer listed is
// dropped so the next Sync picks again.
func (s *Selector) SetOptions(options []Option) {
	s.options = options
	if s.selected != nil && !s.contains(s.selected) {
		s.selected = nil
		s.state = Uninitialized
	}
}

func (s *Selector) Options() []Option { return s.options }

// Sync auto-selects when there is no selection and the list is not empty.
func (s *Selector) Sync() {
	if s.selected != nil || len(s.options) == 0 {
		return
	}

	if s.cfg.Default != nil && s.contains(s.cfg.Default) {
		s.detailPending = false
		s.set(s.find(s.cfg.Default), DefaultSelected)
		return
	}

	if s.detailPending {
		s.detailPending = false
		if v := s.cfg.Projection.apply(*s.cfg.Detail); s.contains(v) {
			s.set(s.find(v), DetailApplied)
			return
		}
	}

	s.set(s.options[0], DefaultSelected)
}

// Select is a user choice.
func (s *Selector) Select(v Option) error {
	if !s.contains(v) {
		return ErrUnknownOption
	}
	s.detailPending = false
	s.set(s.find(v), UserSelected)
	return nil
}

// SelectValue selects the option whose Value matches.
func (s *Selector) SelectValue(value string) error {
	for _, o := range s.options {
		if o.Value() == value {
			return s.Select(o)
		}
	}
	return ErrUnknownOption
}

// Reset clears the selection. A detail that was already applied is not
// applied again.
func (s *Selector) Reset() {
	s.selected = nil
	s.state = Uninitialized
}

func (s *Selector) Selected() (Option, bool) {
	return s.selected, s.selected != nil
}

func (s *Selector) State() State { return s.state }

// Search filters by case-insensitive substring on the label. The underlying
// list is left untouched.
func (s *Selector) Search(query string) []Option {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.options
	}
	out := make([]Option, 0, len(s.options))
	for _, o := range s.options {
		if strings.Contains(strings.ToLower(o.Label()), q) {
			out = append(out, o)
		}
	}
	return out
}

type Item struct {
	Kind     string   `json:"kind"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Icon     string   `json:"icon,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Selected bool     `json:"selected"`
}

// View renders the options matching query.
func (s *Selector) View(query string) []Item {
	visible := s.Search(query)
	items := make([]Item, 0, len(visible))
	for _, o := range visible {
		it := Item{
			Label:    o.Label(),
			Value:    o.Value(),
			Selected: s.selected != nil && Equal(o, s.selected),
		}
		switch v := o.(type) {
		case Text:
			it.Kind = "text"
			if s.cfg.WithImage {
				it.Icon = IconFor(string(v))
			}
		case Record:
			it.Kind = "record"
			if s.cfg.WithImage {
				it.Icon = IconFor(v.Platform)
			}
			if s.cfg.WithBadges {
				it.Badges = v.Badges
			}
		}
		items = append(items, it)
	}
	return items
}

func (s *Selector) set(v Option, state State) {
	s.selected = v
	s.state = state
	if s.cfg.OnSelect != nil {
		s.cfg.OnSelect(v)
	}
}

func (s *Selector) contains(v Option) bool {
	return s.find(v) != nil
}

func (s *Selector) find(v Option) Option {
	for _, o := range s.options {
		if Equal(o, v) {
			return o
		}
	}
	return nil
}
