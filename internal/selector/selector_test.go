package selector

import (
	"errors"
	"testing"
)

type recorder struct {
	calls []Option
}

func (r *recorder) onSelect(v Option) { r.calls = append(r.calls, v) }

func TestSyncSelectsFirstOnce(t *testing.T) {
	rec := &recorder{}
	s := New(Config{OnSelect: rec.onSelect})
	s.SetOptions(Texts([]string{"YouTube", "Instagram"}))

	for i := 0; i < 3; i++ {
		s.Sync()
	}

	if len(rec.calls) != 1 {
		t.Fatalf("callback calls = %d, want 1", len(rec.calls))
	}
	if rec.calls[0] != Text("YouTube") {
		t.Errorf("selected %v, want YouTube", rec.calls[0])
	}
	if s.State() != DefaultSelected {
		t.Errorf("State() = %v, want %v", s.State(), DefaultSelected)
	}
}

func TestSyncWithEmptyOptionsDoesNothing(t *testing.T) {
	rec := &recorder{}
	s := New(Config{OnSelect: rec.onSelect})
	s.Sync()

	if len(rec.calls) != 0 {
		t.Fatalf("callback calls = %d, want 0", len(rec.calls))
	}
	if _, ok := s.Selected(); ok {
		t.Error("Selected() reports a value on an empty list")
	}
}

func TestSyncPrecedence(t *testing.T) {
	detail := &Record{ID: 3, Name: "svc3", Platform: "Instagram", Category: "B"}

	tests := []struct {
		name      string
		cfg       Config
		options   []Option
		want      Option
		wantState State
	}{
		{
			name:      "detail platform projection",
			cfg:       Config{Detail: detail, Projection: ProjectPlatform},
			options:   Texts([]string{"YouTube", "Instagram"}),
			want:      Text("Instagram"),
			wantState: DetailApplied,
		},
		{
			name:      "detail category projection",
			cfg:       Config{Detail: detail, Projection: ProjectCategory},
			options:   Texts([]string{"A", "B"}),
			want:      Text("B"),
			wantState: DetailApplied,
		},
		{
			name: "detail whole record",
			cfg:  Config{Detail: detail, Projection: ProjectWhole},
			options: []Option{
				Record{ID: 1, Name: "svc1"},
				Record{ID: 3, Name: "svc3"},
			},
			want:      Record{ID: 3, Name: "svc3"},
			wantState: DetailApplied,
		},
		{
			name:      "detail not listed falls back to first",
			cfg:       Config{Detail: detail, Projection: ProjectPlatform},
			options:   Texts([]string{"YouTube", "TikTok"}),
			want:      Text("YouTube"),
			wantState: DefaultSelected,
		},
		{
			name:      "default wins over detail",
			cfg:       Config{Default: Text("TikTok"), Detail: detail, Projection: ProjectPlatform},
			options:   Texts([]string{"YouTube", "Instagram", "TikTok"}),
			want:      Text("TikTok"),
			wantState: DefaultSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			tt.cfg.OnSelect = rec.onSelect
			s := New(tt.cfg)
			s.SetOptions(tt.options)
			s.Sync()

			got, ok := s.Selected()
			if !ok || !Equal(got, tt.want) {
				t.Fatalf("Selected() = %v, want %v", got, tt.want)
			}
			if s.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", s.State(), tt.wantState)
			}
			if len(rec.calls) != 1 {
				t.Errorf("callback calls = %d, want 1", len(rec.calls))
			}
		})
	}
}

func TestDetailAppliesOnlyOnce(t *testing.T) {
	detail := &Record{ID: 3, Platform: "Instagram"}
	s := New(Config{Detail: detail, Projection: ProjectPlatform})
	s.SetOptions(Texts([]string{"YouTube", "Instagram"}))
	s.Sync()

	s.Reset()
	s.Sync()

	got, _ := s.Selected()
	if got != Text("YouTube") {
		t.Errorf("after reset Selected() = %v, want YouTube", got)
	}
}

func TestSelect(t *testing.T) {
	rec := &recorder{}
	s := New(Config{OnSelect: rec.onSelect})
	s.SetOptions(Texts([]string{"A", "B"}))
	s.Sync()

	if err := s.Select(Text("B")); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if s.State() != UserSelected {
		t.Errorf("State() = %v, want %v", s.State(), UserSelected)
	}
	if err := s.Select(Text("C")); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("Select(C) error = %v, want ErrUnknownOption", err)
	}
	if err := s.SelectValue("A"); err != nil {
		t.Errorf("SelectValue(A) error = %v", err)
	}
	if len(rec.calls) != 3 {
		t.Errorf("callback calls = %d, want 3", len(rec.calls))
	}

	s.Sync()
	if len(rec.calls) != 3 {
		t.Error("Sync() overrode a user selection")
	}
}

func TestSetOptionsDropsMissingSelection(t *testing.T) {
	s := New(Config{})
	s.SetOptions(Texts([]string{"A", "B"}))
	_ = s.Select(Text("B"))

	s.SetOptions(Texts([]string{"C"}))
	if _, ok := s.Selected(); ok {
		t.Fatal("selection kept after it left the list")
	}
	s.Sync()
	if got, _ := s.Selected(); got != Text("C") {
		t.Errorf("Selected() = %v, want C", got)
	}
}

func TestSearch(t *testing.T) {
	options := []Option{
		Text("YouTube Views"),
		Record{ID: 1, Name: "Instagram Likes"},
		Record{ID: 2, Name: "youtube subscribers"},
	}
	s := New(Config{})
	s.SetOptions(options)

	got := s.Search("YOUTUBE")
	if len(got) != 2 {
		t.Fatalf("Search() = %v, want 2 matches", got)
	}
	if len(s.Options()) != 3 {
		t.Errorf("Search() mutated the list: %d options", len(s.Options()))
	}
	if len(s.Search("  ")) != 3 {
		t.Error("blank query should return every option")
	}
}

func TestViewCapabilities(t *testing.T) {
	rec := Record{ID: 1, Name: "Likes", Platform: "Instagram", Badges: []string{"refill"}}

	plain := New(Config{})
	plain.SetOptions([]Option{rec})
	items := plain.View("")
	if items[0].Icon != "" || items[0].Badges != nil {
		t.Errorf("plain view = %+v, want no icon or badges", items[0])
	}

	rich := New(Config{WithImage: true, WithBadges: true})
	rich.SetOptions([]Option{rec})
	rich.Sync()
	items = rich.View("")
	if items[0].Icon != "/static/icons/instagram.svg" {
		t.Errorf("Icon = %q", items[0].Icon)
	}
	if len(items[0].Badges) != 1 || !items[0].Selected || items[0].Kind != "record" {
		t.Errorf("rich view = %+v", items[0])
	}
}
