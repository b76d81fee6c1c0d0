package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
)

const DefaultAPIVersion = "v1beta"

var (
	ErrAllModelsFailed       = errors.New("All models failed. Please check your API key and try again.")
	ErrUnsupportedAPIVersion = errors.New("unsupported API version")
	ErrEmptyResponse         = errors.New("model returned no text")

	// DefaultCandidates are tried in this exact order: fastest first, broadest compatibility last.
	DefaultCandidates = []Candidate{
		{Name: "gemini-2.5-flash", APIVersion: DefaultAPIVersion},
		{Name: "gemini-2.0-flash", APIVersion: DefaultAPIVersion},
		{Name: "gemini-flash-latest", APIVersion: DefaultAPIVersion},
		{Name: "gemini-2.5-flash-lite", APIVersion: DefaultAPIVersion},
		{Name: "gemini-2.0-flash-lite", APIVersion: DefaultAPIVersion},
	}
)

// Candidate is one model tried by the generation chain.
type Candidate struct {
	Name       string
	APIVersion string
}

func (c Candidate) String() string {
	return c.Name + "@" + c.APIVersion
}

// ParseCandidates reads `name@version` entries (version defaults to DefaultAPIVersion).
// An entry may hold several comma-separated candidates. An empty list yields DefaultCandidates.
func ParseCandidates(entries []string) ([]Candidate, error) {
	var split []string
	for _, entry := range entries {
		split = append(split, strings.Split(entry, ",")...)
	}

	cands := make([]Candidate, 0, len(split))
	for _, entry := range split {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, version := entry, DefaultAPIVersion
		if i := strings.LastIndex(entry, "@"); i >= 0 {
			name, version = strings.TrimSpace(entry[:i]), strings.TrimSpace(entry[i+1:])
		}
		if name == "" || version == "" {
			return nil, errors.Errorf("invalid model candidate %q", entry)
		}
		cands = append(cands, Candidate{Name: name, APIVersion: version})
	}
	if len(cands) == 0 {
		return append([]Candidate(nil), DefaultCandidates...), nil
	}
	return cands, nil
}

// File is one binary part of a GenerationRequest.
type File struct {
	MIMEType string
	Data     []byte
}

type GenerationRequest struct {
	Prompt string
	Files  []File
}

// ModelClient issues a single generation call against one candidate and returns its primary text.
type ModelClient interface {
	Generate(ctx context.Context, cand Candidate, req GenerationRequest) (string, error)
}

// Generation is the output of the first candidate that answered.
type Generation struct {
	Text      string
	ModelUsed string
}

// Generate tries every candidate in order, once each, and stops at the first non-empty answer.
// When all of them fail it returns ErrAllModelsFailed.
func Generate(ctx context.Context, client ModelClient, cands []Candidate, req GenerationRequest, logger core.Logger) (Generation, error) {
	for _, cand := range cands {
		logger.Info(fmt.Sprintf("trying model %s", cand))

		text, err := client.Generate(ctx, cand, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err != nil {
			logger.Warn(fmt.Sprintf("model %s failed", cand), err)
			if ctx.Err() != nil {
				return Generation{}, errors.Wrap(ctx.Err(), "generating content")
			}
			continue
		}

		logger.Info(fmt.Sprintf("model %s answered", cand))
		return Generation{Text: text, ModelUsed: cand.Name}, nil
	}
	return Generation{}, ErrAllModelsFailed
}
