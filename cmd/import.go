package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/ingest"
	"github.com/sells-group/lead-cli/internal/model"
)

var (
	importFilePath string
	importAgent    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads from a spreadsheet file",
	Long:  "Parses a CSV/TSV/XLSX file, maps its columns to lead fields, and persists every row. Row failures are reported but never abort the batch.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bus, flush := initBus()
		defer flush()

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrapf(err, "read %s", importFilePath)
		}

		importer := ingest.NewImporter(st, bus, cfg.Import.DefaultAgent)
		summary, err := importer.Import(ctx, data, filepath.Base(importFilePath), importAgent)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		printSummary(importFilePath, summary)
		return nil
	},
}

func printSummary(path string, summary *model.ImportSummary) {
	fmt.Printf("%s: %d imported, %d failed (of %d rows)\n",
		path, summary.Imported, summary.Errors, summary.Total)
	for _, detail := range summary.ErrorDetails {
		fmt.Printf("  row %d: %s\n", detail.Row, detail.Error)
	}
	if summary.Errors > len(summary.ErrorDetails) {
		fmt.Printf("  ... and %d more\n", summary.Errors-len(summary.ErrorDetails))
	}

	zap.L().Info("import finished",
		zap.String("file", path),
		zap.Int("imported", summary.Imported),
		zap.Int("errors", summary.Errors),
	)
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to spreadsheet file (required)")
	importCmd.Flags().StringVar(&importAgent, "agent", "", "acting agent (default from config)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
