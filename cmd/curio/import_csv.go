package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/csvio"
	"github.com/curiocollect/curio/internal/model"
)

// importBatchSize is the number of rows written per transaction.
const importBatchSize = 200

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file or glob>...",
		Short: "Import items from CSV files",
		Long: `Read one or more CSV files into the inventory. Arguments may be literal
paths or globs (e.g. exports/*.csv). Rows whose content hash matches an
existing item are skipped, so re-importing the same file is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			importer := csvio.NewImporter()
			var items []model.Item
			for _, path := range paths {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				parsed, err := importer.Parse(f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}
				common.LogInfo("parsed import file", common.Fields{
					"path": path, "rows": len(parsed)})
				items = append(items, parsed...)
			}
			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("Nothing to import."))
				return nil
			}

			bar := progressbar.NewOptions(len(items),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing items..."),
			)

			inserted := 0
			for start := 0; start < len(items); start += importBatchSize {
				end := start + importBatchSize
				if end > len(items) {
					end = len(items)
				}
				n, err := store.SaveItems(ctx, items[start:end])
				if err != nil {
					return fmt.Errorf("failed to save items: %w", err)
				}
				inserted += n
				_ = bar.Add(end - start)
			}
			_ = bar.Finish()
			fmt.Println()

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Imported %d items (%d duplicates skipped)",
				inserted, len(items)-inserted)))
			return nil
		},
	}

	return cmd
}

// expandGlobs resolves each argument as a glob; arguments without glob
// metacharacters pass through so missing literal files still error on open.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", arg, err)
		}
		if matches == nil {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
