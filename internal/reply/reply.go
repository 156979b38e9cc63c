// Package reply turns fetched content into chat messages and inline query results.
package reply

import (
	"context"
	"fmt"
	"strings"

	"dadjoke-bot/internal/models"

	"github.com/samber/lo"
)

const (
	HelpResultID   = "help"
	maxDescription = 100
)

type Fetcher interface {
	Fetch(ctx context.Context, source models.ContentSource) (*models.Content, error)
}

type presentation struct {
	noun    string
	title   string
	apology string
}

var presentations = map[models.ContentSource]presentation{
	models.SourceJoke: {
		noun:    "joke",
		title:   "Get a dad joke",
		apology: "Sorry, I couldn't fetch a joke right now. Please try again later.",
	},
	models.SourceAdvice: {
		noun:    "advice",
		title:   "Get some advice",
		apology: "Sorry, I couldn't fetch any advice right now. Please try again later.",
	},
	models.SourceFact: {
		noun:    "fact",
		title:   "Get a random fact",
		apology: "Sorry, I couldn't fetch a fact right now. Please try again later.",
	},
}

type Command struct {
	Name        string
	Description string
}

var Commands = []Command{
	{"joke", "Get a random dad joke"},
	{"advice", "Get a piece of advice"},
	{"fact", "Get a random useless fact"},
	{"help", "Show this help message"},
}

// Assembler never returns an error: every failure degrades to an apology
// or to a missing inline entry.
type Assembler struct {
	fetcher Fetcher
	sources []models.ContentSource
}

// New builds an Assembler over the given sources, in order. With no sources
// it serves all of them in models.AllSources order.
func New(f Fetcher, sources ...models.ContentSource) *Assembler {
	if len(sources) == 0 {
		sources = models.AllSources
	}
	return &Assembler{fetcher: f, sources: sources}
}

// Command fetches one item for a chat command. The returned content is nil
// when the fetch failed and the text is an apology.
func (a *Assembler) Command(ctx context.Context, source models.ContentSource) (string, *models.Content) {
	c, err := a.fetcher.Fetch(ctx, source)
	if err != nil {
		return Apology(source), nil
	}
	return Message(c), c
}

// Inline fetches every source matching query, one after another, and returns
// one result per success followed by the help entry. A query that prefixes
// one or more source names ("j", "fa") narrows the fetch to those sources;
// any other query fetches them all.
func (a *Assembler) Inline(ctx context.Context, query string) []models.InlineResult {
	results := make([]models.InlineResult, 0, len(a.sources)+1)

	for _, source := range a.match(query) {
		c, err := a.fetcher.Fetch(ctx, source)
		if err != nil {
			continue
		}
		results = append(results, models.InlineResult{
			ID:          ResultID(c),
			Title:       presentations[source].title,
			Description: Describe(c.Text),
			MessageBody: Message(c),
		})
	}

	return append(results, HelpResult())
}

// match narrows the sources to those whose name starts with the query.
// An empty or non-matching query selects every source.
func (a *Assembler) match(query string) []models.ContentSource {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return a.sources
	}
	matched := lo.Filter(a.sources, func(s models.ContentSource, _ int) bool {
		return strings.HasPrefix(string(s), q)
	})
	if len(matched) == 0 {
		return a.sources
	}
	return matched
}

func Message(c *models.Content) string {
	return fmt.Sprintf("Here's your %s:\n\n%s", noun(c.Source), c.Text)
}

func Apology(source models.ContentSource) string {
	if p, ok := presentations[source]; ok {
		return p.apology
	}
	return "Sorry, I couldn't fetch that right now. Please try again later."
}

func noun(source models.ContentSource) string {
	if p, ok := presentations[source]; ok {
		return p.noun
	}
	return string(source)
}

// Describe shortens text to the first 100 characters plus an ellipsis.
func Describe(text string) string {
	r := []rune(text)
	if len(r) <= maxDescription {
		return text
	}
	return string(r[:maxDescription]) + "..."
}

func ResultID(c *models.Content) string {
	return string(c.Source) + "_" + c.ID
}

// SourceFromResultID splits an inline result id back into source and content id.
func SourceFromResultID(id string) (models.ContentSource, string, bool) {
	name, contentID, ok := strings.Cut(id, "_")
	if !ok || contentID == "" {
		return "", "", false
	}
	source, ok := models.ParseSource(name)
	if !ok {
		return "", "", false
	}
	return source, contentID, true
}

func HelpResult() models.InlineResult {
	return models.InlineResult{
		ID:          HelpResultID,
		Title:       "Help",
		Description: "Commands: " + strings.Join(lo.Map(Commands, func(c Command, _ int) string { return "/" + c.Name }), ", "),
		MessageBody: Help(),
	}
}

func Help() string {
	lines := lo.Map(Commands, func(c Command, _ int) string {
		return fmt.Sprintf("/%s - %s", c.Name, c.Description)
	})
	return "Available commands:\n" + strings.Join(lines, "\n")
}

func Start(botUsername string) string {
	return fmt.Sprintf(
		"I'm a dad joke bot! Use me inline in any chat by typing @%s followed by a space.\n\n%s",
		botUsername, Help(),
	)
}
