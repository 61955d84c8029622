// Package report renders extraction summaries for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fjacquet/trs-records/internal/logging"
	"fjacquet/trs-records/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats returns the supported report formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// Generator renders a models.Summary in one of the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger.WithField("component", "ReportGenerator")}
}

// Generate renders summary in format. Unknown formats are an error.
func (g *Generator) Generate(summary models.Summary, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return g.generateText(summary), nil
	case FormatJSON:
		return g.generateJSON(summary)
	case FormatYAML:
		return g.generateYAML(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// generateText prints the record count followed by one line per type, known
// types first in declaration order.
func (g *Generator) generateText(summary models.Summary) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%d records found\n", summary.Total)
	for _, t := range orderedTypes(summary) {
		fmt.Fprintf(&b, "%s: %d\n", t, summary.ByType[t])
	}
	return []byte(b.String())
}

func (g *Generator) generateJSON(summary models.Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(summary models.Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func orderedTypes(summary models.Summary) []models.TransactionType {
	known := models.TransactionTypes()
	seen := make(map[models.TransactionType]bool, len(known))
	for _, t := range known {
		seen[t] = true
	}
	var extra []models.TransactionType
	for t := range summary.ByType {
		if !seen[t] {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(known, extra...)
}
