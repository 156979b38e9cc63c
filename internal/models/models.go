package models

import "strings"

type ContentSource string

const (
	SourceJoke   ContentSource = "joke"
	SourceAdvice ContentSource = "advice"
	SourceFact   ContentSource = "fact"
)

// AllSources is the fixed enumeration order used everywhere sources are iterated.
var AllSources = []ContentSource{SourceJoke, SourceAdvice, SourceFact}

func ParseSource(s string) (ContentSource, bool) {
	name := ContentSource(strings.ToLower(strings.TrimSpace(s)))
	for _, src := range AllSources {
		if src == name {
			return src, true
		}
	}
	return "", false
}

type Content struct {
	Source ContentSource `json:"source"`
	Text   string        `json:"text"`
	ID     string        `json:"id"`
}

type InlineResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MessageBody string `json:"message_body"`
}

type ServedPath string

const (
	PathCommand ServedPath = "command"
	PathInline  ServedPath = "inline"
)
