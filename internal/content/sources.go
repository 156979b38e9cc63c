package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/models"
)

// Source describes one upstream endpoint and how to read a Content from it.
type Source struct {
	Name    models.ContentSource
	URL     string
	Headers map[string]string
	// CacheBust appends a timestamp query parameter to every request.
	CacheBust bool
	decode    func(body []byte) (text, id string, err error)
}

func DefaultSources(cfg config.SourcesConfig) map[models.ContentSource]Source {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": cfg.UserAgent,
	}

	return map[models.ContentSource]Source{
		models.SourceJoke: {
			Name:    models.SourceJoke,
			URL:     cfg.JokeURL,
			Headers: headers,
			decode:  decodeJoke,
		},
		models.SourceAdvice: {
			Name:      models.SourceAdvice,
			URL:       cfg.AdviceURL,
			Headers:   headers,
			CacheBust: true,
			decode:    decodeAdvice,
		},
		models.SourceFact: {
			Name:    models.SourceFact,
			URL:     cfg.FactURL,
			Headers: headers,
			decode:  decodeFact,
		},
	}
}

type jokeResponse struct {
	ID   flexID `json:"id"`
	Joke string `json:"joke"`
}

type adviceResponse struct {
	Slip *struct {
		ID     flexID `json:"id"`
		Advice string `json:"advice"`
	} `json:"slip"`
}

type factResponse struct {
	ID   flexID `json:"id"`
	Text string `json:"text"`
}

func missing(field string) error {
	return &ParseError{Field: field}
}

func decodeJoke(body []byte) (string, string, error) {
	var resp jokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", &ParseError{Err: err}
	}
	switch {
	case strings.TrimSpace(resp.Joke) == "":
		return "", "", missing("joke")
	case resp.ID == "":
		return "", "", missing("id")
	}
	return resp.Joke, string(resp.ID), nil
}

func decodeAdvice(body []byte) (string, string, error) {
	var resp adviceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", &ParseError{Err: err}
	}
	switch {
	case resp.Slip == nil:
		return "", "", missing("slip")
	case strings.TrimSpace(resp.Slip.Advice) == "":
		return "", "", missing("slip.advice")
	case resp.Slip.ID == "":
		return "", "", missing("slip.id")
	}
	return resp.Slip.Advice, string(resp.Slip.ID), nil
}

func decodeFact(body []byte) (string, string, error) {
	var resp factResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", &ParseError{Err: err}
	}
	switch {
	case strings.TrimSpace(resp.Text) == "":
		return "", "", missing("text")
	case resp.ID == "":
		return "", "", missing("id")
	}
	return resp.Text, string(resp.ID), nil
}

// flexID accepts both JSON strings and integers; adviceslip returns numeric ids.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is neither a string nor an integer", data)
	}
	*f = flexID(strconv.FormatInt(n, 10))
	return nil
}
