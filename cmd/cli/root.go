package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"FxScore/internal/domain/models"
	"FxScore/internal/services/scoring"
	"FxScore/internal/usecase"
	"FxScore/pkg/metrics"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	file   string
	asJSON bool
	top    int
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fxscore",
		Short: "Score currency strength and pair signals from a snapshot file",
		Long: `fxscore runs the scoring engine over a YAML market snapshot without
any server, cache or broker.

Examples:
  fxscore regime -f examples/snapshot.yaml
  fxscore score -f examples/snapshot.yaml --json
  fxscore signals -f examples/snapshot.yaml --top 3
  fxscore pair USD JPY -f examples/snapshot.yaml
  fxscore weights risk_off`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "snapshot YAML file")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newRegimeCmd(opts),
		newWeightsCmd(opts),
		newScoreCmd(opts),
		newSignalsCmd(opts),
		newPairCmd(opts),
	)
	return root
}

// loadSnapshot reads a snapshot file and upper-cases the currency codes.
func loadSnapshot(path string) (models.MarketSnapshot, error) {
	if path == "" {
		return models.MarketSnapshot{}, fmt.Errorf("--file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap models.MarketSnapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	for i := range snap.Currencies {
		snap.Currencies[i].Currency = usecase.NormalizeCurrency(snap.Currencies[i].Currency)
	}
	return snap, nil
}

func recalculate(ctx context.Context, path string) (*models.ScoringResult, error) {
	snap, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	engine := scoring.NewEngine()
	return usecase.NewRecalculator(engine, engine, engine, metrics.Nop{}).Recalculate(ctx, snap)
}
