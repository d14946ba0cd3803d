package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/deed-cli/internal/pipeline"
	"github.com/sells-group/deed-cli/internal/registry"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch [dir|files...]",
	Short: "Validate many deed records concurrently",
	Long:  "Processes each deed file against one shared registry. Deeds are independent: one failure never stops the others. A directory argument expands to the .txt files directly inside it; entries with other extensions are skipped and logged.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		files, err := collectDeedFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return eris.New("no deed files found")
		}

		// The registry is loaded once and shared read-only across all
		// concurrent runs.
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

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentDeeds
		}

		// One client for the whole batch: the rate limiter lives on the
		// client, so sharing it is what makes the configured cap apply
		// across concurrent deeds.
		client := newAnthropicClient()

		var failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for _, file := range files {
			g.Go(func() error {
				rawText, err := os.ReadFile(file)
				if err != nil {
					failed.Add(1)
					zap.L().Error("batch: read deed file", zap.String("file", file), zap.Error(err))
					return nil
				}

				p := pipeline.New(st, newExtractor(client), reg)
				result, err := p.Run(gctx, string(rawText))
				if err != nil {
					failed.Add(1)
					zap.L().Error("batch: deed failed", zap.String("file", file), zap.Error(err))
					return nil
				}

				zap.L().Info("batch: deed validated",
					zap.String("file", file),
					zap.String("county", result.NormalizedCounty),
					zap.String("tax_due", result.TaxDue.String()),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch: wait")
		}

		n := failed.Load()
		fmt.Fprintf(cmd.OutOrStdout(), "processed %d deeds, %d failed\n", len(files), n)
		if n > 0 {
			return eris.Errorf("batch: %d of %d deeds failed", n, len(files))
		}
		return nil
	},
}

// collectDeedFiles expands a single directory argument into its .txt files,
// or passes explicit file paths through. Skipped directory entries are
// logged so a misnamed deed file never disappears silently.
func collectDeedFiles(args []string) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, eris.Wrapf(err, "stat %s", args[0])
		}
		if info.IsDir() {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return nil, eris.Wrapf(err, "read dir %s", args[0])
			}
			var files, skipped []string
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
					skipped = append(skipped, e.Name())
					continue
				}
				files = append(files, filepath.Join(args[0], e.Name()))
			}
			if len(skipped) > 0 {
				zap.L().Info("batch: skipping non-.txt directory entries",
					zap.String("dir", args[0]),
					zap.Strings("skipped", skipped),
				)
			}
			return files, nil
		}
	}
	return args, nil
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent deeds (default from config)")
	rootCmd.AddCommand(batchCmd)
}
