package main

import (
	"fmt"

	"FxScore/internal/domain/models"
	"FxScore/internal/services/scoring"
	"FxScore/internal/usecase"

	"github.com/spf13/cobra"
)

type regimeView struct {
	Regime               models.MarketRegime  `json:"regime"`
	VolatilityPercentile float64              `json:"volatility_percentile"`
	Weights              models.FactorWeights `json:"weights"`
}

func newRegimeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "regime",
		Short: "Detect the market regime of a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(opts.file)
			if err != nil {
				return err
			}
			p, err := scoring.VolatilityPercentile(snap.Volatility)
			if err != nil {
				return err
			}
			regime, err := scoring.DetectRegime(snap.Volatility, snap.CrossAsset, snap.CentralBankWeek)
			if err != nil {
				return err
			}
			v := regimeView{Regime: regime, VolatilityPercentile: p, Weights: scoring.Weights(regime)}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regime: %s\nvolatility percentile: %.1f\n\n", v.Regime, v.VolatilityPercentile)
			return writeWeights(cmd.OutOrStdout(), []models.MarketRegime{regime})
		},
	}
}

func newWeightsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "weights [regime]",
		Short: "Print factor weights for one regime or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regimes := models.Regimes
			if len(args) == 1 {
				regimes = []models.MarketRegime{models.ParseRegime(args[0])}
			}
			if opts.asJSON {
				out := make(map[models.MarketRegime]models.FactorWeights, len(regimes))
				for _, r := range regimes {
					out[r] = scoring.Weights(r)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeWeights(cmd.OutOrStdout(), regimes)
		},
	}
}

func newScoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score every currency in a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := recalculate(cmd.Context(), opts.file)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regime: %s\n\n", res.Regime)
			return writeScores(cmd.OutOrStdout(), res.Scores)
		},
	}
}

func newSignalsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Rank pair signals by absolute score differential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.top < 0 {
				return fmt.Errorf("--top must not be negative")
			}
			res, err := recalculate(cmd.Context(), opts.file)
			if err != nil {
				return err
			}
			signals := res.Signals
			if opts.top > 0 {
				signals = scoring.TopSignals(signals, opts.top)
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), signals)
			}
			return writeSignals(cmd.OutOrStdout(), signals)
		},
	}
	cmd.Flags().IntVar(&opts.top, "top", usecase.DefaultTopSignals, "number of signals to print, 0 for all")
	return cmd
}

func newPairCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pair <A> <B>",
		Short: "Signal for one currency pair of a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := usecase.NormalizeCurrency(args[0]), usecase.NormalizeCurrency(args[1])
			if a == b {
				return fmt.Errorf("pair needs two different currencies, got %s twice", a)
			}
			res, err := recalculate(cmd.Context(), opts.file)
			if err != nil {
				return err
			}
			sa, ok := res.Score(a)
			if !ok {
				return fmt.Errorf("%w: %s", usecase.ErrUnknownCurrency, a)
			}
			sb, ok := res.Score(b)
			if !ok {
				return fmt.Errorf("%w: %s", usecase.ErrUnknownCurrency, b)
			}
			signal := scoring.GenerateSignal(sa, sb)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), signal)
			}
			return writeSignals(cmd.OutOrStdout(), []models.PairSignal{signal})
		},
	}
}
