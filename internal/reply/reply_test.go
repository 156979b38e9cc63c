package reply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dadjoke-bot/internal/models"

	"github.com/google/go-cmp/cmp"
)

type stubFetcher struct {
	content map[models.ContentSource]*models.Content
	calls   []models.ContentSource
}

func (s *stubFetcher) Fetch(_ context.Context, source models.ContentSource) (*models.Content, error) {
	s.calls = append(s.calls, source)
	if c, ok := s.content[source]; ok {
		return c, nil
	}
	return nil, errors.New("upstream unavailable")
}

func TestCommandSuccess(t *testing.T) {
	f := &stubFetcher{content: map[models.ContentSource]*models.Content{
		models.SourceJoke: {Source: models.SourceJoke, Text: "Why did...", ID: "abc"},
	}}

	text, served := New(f).Command(context.Background(), models.SourceJoke)

	if want := "Here's your joke:\n\nWhy did..."; text != want {
		t.Errorf("Command() = %q, want %q", text, want)
	}
	if served == nil || served.ID != "abc" {
		t.Errorf("Command() served = %+v, want content with id abc", served)
	}
}

func TestCommandFailure(t *testing.T) {
	tests := []struct {
		source models.ContentSource
		want   string
	}{
		{models.SourceJoke, "Sorry, I couldn't fetch a joke right now. Please try again later."},
		{models.SourceAdvice, "Sorry, I couldn't fetch any advice right now. Please try again later."},
		{models.SourceFact, "Sorry, I couldn't fetch a fact right now. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			f := &stubFetcher{}
			text, served := New(f).Command(context.Background(), tt.source)

			if text != tt.want {
				t.Errorf("Command() = %q, want %q", text, tt.want)
			}
			if served != nil {
				t.Errorf("Command() served = %+v, want nil", served)
			}
			if len(f.calls) != 1 {
				t.Errorf("Fetch called %d times, want 1", len(f.calls))
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	long := strings.Repeat("a", 150)
	short := strings.Repeat("b", 80)
	exact := strings.Repeat("c", 100)
	cyrillic := strings.Repeat("ж", 120)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"150 chars truncated", long, strings.Repeat("a", 100) + "..."},
		{"80 chars untouched", short, short},
		{"exactly 100 untouched", exact, exact},
		{"counts characters not bytes", cyrillic, strings.Repeat("ж", 100) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.input); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInlinePartialFailure(t *testing.T) {
	f := &stubFetcher{content: map[models.ContentSource]*models.Content{
		models.SourceJoke: {Source: models.SourceJoke, Text: "I'm reading a book about anti-gravity.", ID: "j1"},
		models.SourceFact: {Source: models.SourceFact, Text: "Honey never spoils.", ID: "f9"},
	}}

	got := New(f).Inline(context.Background(), "")

	want := []models.InlineResult{
		{
			ID:          "joke_j1",
			Title:       "Get a dad joke",
			Description: "I'm reading a book about anti-gravity.",
			MessageBody: "Here's your joke:\n\nI'm reading a book about anti-gravity.",
		},
		{
			ID:          "fact_f9",
			Title:       "Get a random fact",
			Description: "Honey never spoils.",
			MessageBody: "Here's your fact:\n\nHoney never spoils.",
		},
		HelpResult(),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inline() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.AllSources, f.calls); diff != "" {
		t.Errorf("fetch order mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineAllFail(t *testing.T) {
	got := New(&stubFetcher{}).Inline(context.Background(), "")

	if diff := cmp.Diff([]models.InlineResult{HelpResult()}, got); diff != "" {
		t.Errorf("Inline() mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineLongJoke(t *testing.T) {
	text := strings.Repeat("x", 150)
	f := &stubFetcher{content: map[models.ContentSource]*models.Content{
		models.SourceJoke: {Source: models.SourceJoke, Text: text, ID: "long"},
	}}

	got := New(f, models.SourceJoke).Inline(context.Background(), "")

	if len(got) != 2 {
		t.Fatalf("Inline() returned %d results, want 2", len(got))
	}
	if got[0].Description != strings.Repeat("x", 100)+"..." {
		t.Errorf("Description = %q", got[0].Description)
	}
	if got[0].MessageBody != "Here's your joke:\n\n"+text {
		t.Errorf("MessageBody should carry the full text, got %q", got[0].MessageBody)
	}
}

func TestInlineQueryFilter(t *testing.T) {
	all := map[models.ContentSource]*models.Content{
		models.SourceJoke:   {Source: models.SourceJoke, Text: "j", ID: "1"},
		models.SourceAdvice: {Source: models.SourceAdvice, Text: "a", ID: "2"},
		models.SourceFact:   {Source: models.SourceFact, Text: "f", ID: "3"},
	}

	tests := []struct {
		query     string
		wantCalls []models.ContentSource
	}{
		{"", models.AllSources},
		{"  ", models.AllSources},
		{"j", []models.ContentSource{models.SourceJoke}},
		{"adv", []models.ContentSource{models.SourceAdvice}},
		{"FACT", []models.ContentSource{models.SourceFact}},
		{"weather", models.AllSources},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := &stubFetcher{content: all}
			got := New(f).Inline(context.Background(), tt.query)

			if diff := cmp.Diff(tt.wantCalls, f.calls); diff != "" {
				t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
			}
			if len(got) != len(tt.wantCalls)+1 {
				t.Errorf("Inline() returned %d results, want %d", len(got), len(tt.wantCalls)+1)
			}
			if got[len(got)-1].ID != HelpResultID {
				t.Errorf("last result = %q, want help entry", got[len(got)-1].ID)
			}
		})
	}
}

func TestSourceFromResultID(t *testing.T) {
	tests := []struct {
		id         string
		wantSource models.ContentSource
		wantID     string
		wantOK     bool
	}{
		{"joke_R7UfaahVfFd", models.SourceJoke, "R7UfaahVfFd", true},
		{"advice_71", models.SourceAdvice, "71", true},
		{"fact_a_b", models.SourceFact, "a_b", true},
		{"help", "", "", false},
		{"joke_", "", "", false},
		{"weather_1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			source, id, ok := SourceFromResultID(tt.id)
			if source != tt.wantSource || id != tt.wantID || ok != tt.wantOK {
				t.Errorf("SourceFromResultID(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.id, source, id, ok, tt.wantSource, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestStartAndHelp(t *testing.T) {
	start := Start("dadjokezbot")

	if !strings.HasPrefix(start, "I'm a dad joke bot! Use me inline in any chat by typing @dadjokezbot followed by a space.") {
		t.Errorf("unexpected start text: %q", start)
	}
	for _, cmd := range []string{"/joke", "/advice", "/fact", "/help"} {
		if !strings.Contains(Help(), cmd) {
			t.Errorf("Help() does not mention %s", cmd)
		}
	}
}
