package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deed-cli/internal/extract"
	"github.com/sells-group/deed-cli/internal/model"
	"github.com/sells-group/deed-cli/internal/pipeline"
	"github.com/sells-group/deed-cli/internal/registry"
	anthropicpkg "github.com/sells-group/deed-cli/pkg/anthropic"
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Validate a single deed record",
	Long:  "Reads raw deed text from a file (or stdin with \"-\"), extracts structured fields, validates them against the county registry, and prints the tax summary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rawText, err := readDeedText(args[0])
		if err != nil {
			return err
		}

		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return eris.Wrap(err, "load county registry")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		extractor := newExtractor(newAnthropicClient())
		p := pipeline.New(st, extractor, reg)

		result, err := p.Run(ctx, rawText)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), pipeline.FormatSummary(extractor.LastFields(), result))
		return nil
	},
}

// recordingExtractor keeps the last extracted fields so the summary can show
// them without re-extracting.
type recordingExtractor struct {
	inner  pipeline.Extractor
	fields model.DeedFields
}

func (r *recordingExtractor) Extract(ctx context.Context, rawText string) (model.DeedFields, error) {
	fields, err := r.inner.Extract(ctx, rawText)
	if err == nil {
		r.fields = fields
	}
	return fields, err
}

// LastFields returns the fields from the most recent successful extraction.
func (r *recordingExtractor) LastFields() model.DeedFields {
	return r.fields
}

// newAnthropicClient builds the one API client for this invocation. The rate
// limiter lives inside the client, so it must be shared by every extractor
// that issues requests; per-deed clients would each get their own limiter and
// the configured cap would never bind.
func newAnthropicClient() anthropicpkg.Client {
	var opts []anthropicpkg.Option
	if cfg.Anthropic.RequestsPerSecond > 0 {
		opts = append(opts, anthropicpkg.WithRateLimit(cfg.Anthropic.RequestsPerSecond, cfg.Anthropic.Burst))
	}
	return anthropicpkg.NewClient(cfg.Anthropic.Key, opts...)
}

func newExtractor(client anthropicpkg.Client) *recordingExtractor {
	return &recordingExtractor{
		inner: extract.NewClaudeExtractor(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens),
	}
}

func readDeedText(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", eris.Wrapf(err, "read deed file %s", arg)
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(processCmd)
}
