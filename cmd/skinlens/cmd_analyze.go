package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skinlens/backend/internal/domain"
	"github.com/skinlens/backend/internal/usecase"
)

// analyzeCmd classifies a single ingredient list
var analyzeCmd = &cobra.Command{
	Use:   "analyze [ingredients]",
	Short: "Classify and flag an ingredient list",
	Long: `Classify an ingredient list with the configured model and flag known
irritant and comedogenic ingredients. The list is taken from the arguments
or, when none are given, from stdin. The result is printed as JSON.`,
	Example: `  skinlens analyze "Aqua, Glycerin, Fragrance"
  cat label.txt | skinlens analyze`,
	RunE: runAnalyze,
}

// normalizeCmd prints the canonical form of an ingredient list
var normalizeCmd = &cobra.Command{
	Use:   "normalize [ingredients]",
	Short: "Print the canonical form of an ingredient list",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readIngredients(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), usecase.Normalize(text))
		return nil
	},
}

// catalogCmd prints the active flag catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active flag catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCatalog(cfg, logger)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string][]string{
			"irritants":   c.Irritants(),
			"comedogenic": c.Comedogenic(),
		})
	},
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readIngredients(cmd, args)
	if err != nil {
		return err
	}
	if usecase.Normalize(text) == "" {
		return domain.ErrEmptyIngredients
	}

	svc, cleanup, err := newAnalysisService(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	analysis, err := svc.Analyze(cmd.Context(), &text)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), analysis)
}

// readIngredients joins the arguments or, without arguments, reads stdin
func readIngredients(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
