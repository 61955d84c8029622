// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/trs-records/cmd/common"
	"fjacquet/trs-records/cmd/root"
	"fjacquet/trs-records/internal/container"

	"github.com/spf13/cobra"
)

var (
	workers int
	format  string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process files from an input directory and output them to another directory.

Every .pdf and .txt file in the input directory is converted to a CSV file in
the output directory named after the input file, extension included
(statement.pdf becomes statement.pdf.csv). Files are processed concurrently and
the combined summary is printed at the end.

Example:
  trs-records batch -i input_dir/ -o output_dir/ --workers 8`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent conversions (default from batch.workers)")
	Cmd.Flags().StringVar(&format, "format", "", "Summary format: text, json or yaml (default from report.format)")
}

func batchFunc(cmd *cobra.Command, args []string) {
	appContainer := root.GetContainer()
	if appContainer == nil {
		root.Log.Fatal("Container not initialized")
		return
	}

	err := Run(cmd.Context(), appContainer, root.SharedFlags.Input, root.SharedFlags.Output,
		workers, root.SharedFlags.Validate, format, cmd.OutOrStdout())
	if err != nil {
		root.Log.WithError(err).Fatal("Batch processing failed")
	}
}

// Run converts every statement in inputDir into outputDir and prints the
// combined summary. It fails when any single file failed.
func Run(ctx context.Context, c *container.Container, inputDir, outputDir string, workers int, validate bool, format string, out io.Writer) error {
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := c.NewBatchProcessor(workers, validate).ProcessDirectory(ctx, inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("error during batch conversion: %w", err)
	}

	for _, fr := range result.Files {
		if fr.Err != nil {
			if _, err := fmt.Fprintf(out, "FAILED %s: %v\n", fr.InputFile, fr.Err); err != nil {
				return err
			}
		}
	}

	if format == "" {
		format = c.GetConfig().Report.Format
	}
	if err := common.PrintSummary(out, c.GetReportGenerator(), result.Summary, format); err != nil {
		return fmt.Errorf("error printing summary: %w", err)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", result.Failed, len(result.Files))
	}
	return nil
}
