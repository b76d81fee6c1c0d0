package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trezcool/edutube/core/content"
)

const (
	probePrompt  = "Say 'Hello'"
	probeTimeout = 20 * time.Second
)

func (cli *commandLine) listModels() error {
	if cli.models == nil {
		return errNoAIKey
	}
	models, err := cli.models.ListModels(context.Background())
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Fprintf(cli.out, "%s\t%s\n", m.Name, m.DisplayName)
	}
	return nil
}

// probeModels sends a one-line prompt to every candidate and reports which ones answer.
func (cli *commandLine) probeModels() error {
	if cli.model == nil {
		return errNoAIKey
	}

	var working int
	for _, cand := range cli.candidates {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		text, err := cli.model.Generate(ctx, cand, content.GenerationRequest{Prompt: probePrompt})
		cancel()

		switch {
		case err != nil:
			fmt.Fprintf(cli.out, "FAIL %s: %v\n", cand, err)
		case strings.TrimSpace(text) == "":
			fmt.Fprintf(cli.out, "FAIL %s: %v\n", cand, content.ErrEmptyResponse)
		default:
			working++
			fmt.Fprintf(cli.out, "OK   %s: %s\n", cand, firstLine(text, 50))
		}
	}

	fmt.Fprintf(cli.out, "%d/%d models answered\n", working, len(cli.candidates))
	if working == 0 {
		return errNoAnswer
	}
	return nil
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}
