// Package extract handles the single-file extraction command
package extract

import (
	"fmt"
	"io"

	"fjacquet/trs-records/cmd/common"
	"fjacquet/trs-records/cmd/root"
	"fjacquet/trs-records/internal/container"
	"fjacquet/trs-records/internal/logging"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transaction records from a statement",
	Long: `Extract transaction records from a statement PDF or text file.

The command prints how many records were found, per transaction type.
With --output the records are also exported to CSV.

Example:
  trs-records extract -i statement.pdf
  trs-records extract -i statement.pdf -o records.csv --format json`,
	Run: extractFunc,
}

func init() {
	Cmd.Flags().StringVar(&format, "format", "", "Summary format: text, json or yaml (default from report.format)")
}

func extractFunc(cmd *cobra.Command, args []string) {
	appContainer := root.GetContainer()
	if appContainer == nil {
		root.Log.Fatal("Container not initialized")
		return
	}

	err := Run(appContainer, root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Validate, format, cmd.OutOrStdout())
	if err != nil {
		root.Log.WithError(err).Fatal("Extraction failed")
	}
}

// Run extracts records from inputFile and prints the summary to out.
func Run(c *container.Container, inputFile, outputFile string, validate bool, format string, out io.Writer) error {
	logger := c.GetLogger()
	logger.Info("Extract command called",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})

	summary, err := common.ProcessFile(c.GetParser(), inputFile, outputFile, validate, logger)
	if err != nil {
		return err
	}

	if format == "" {
		format = c.GetConfig().Report.Format
	}
	if err := common.PrintSummary(out, c.GetReportGenerator(), summary, format); err != nil {
		return fmt.Errorf("error printing summary: %w", err)
	}
	return nil
}
