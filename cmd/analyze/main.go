// Command dermalog-analyze runs the ingredient interaction analysis on a
// JSON file mapping product names to ingredient lists.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dermalog/backend/internal/domain"
	"github.com/dermalog/backend/internal/logging"
	"github.com/dermalog/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file     string
		output   string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "dermalog-analyze",
		Short: "Analyze ingredient interactions across skincare products",
		Long: `Reads a JSON object mapping product names to ingredient lists and prints
the beneficial ingredient categories and interaction findings.

A missing or unreadable file is reported as "not analyzed" rather than an error.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q (want json or yaml)", output)
			}

			logger, err := logging.New("production", logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			report := analyzeFile(file, cmd.InOrStdin(), logger)
			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "ingredient map JSON file (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")

	return cmd
}

// analyzeFile loads the ingredient map and analyzes it. Read and parse
// failures degrade to the not-analyzed report.
func analyzeFile(path string, stdin io.Reader, logger *zap.Logger) *domain.InteractionReport {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		logger.Warn("ingredient map unavailable", zap.String("file", path), zap.Error(err))
		return domain.NotAnalyzedReport()
	}

	var products domain.ProductIngredients
	if err := json.Unmarshal(data, &products); err != nil || products == nil {
		logger.Warn("ingredient map malformed", zap.String("file", path), zap.Error(err))
		return domain.NotAnalyzedReport()
	}

	return usecase.AnalyzeIngredients(products)
}

func writeReport(w io.Writer, report *domain.InteractionReport, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
