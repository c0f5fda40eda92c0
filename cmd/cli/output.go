package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"FxScore/internal/domain/models"
	"FxScore/internal/services/scoring"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeWeights(w io.Writer, regimes []models.MarketRegime) error {
	tw := table(w)
	fmt.Fprintln(tw, "REGIME\tRATE POLICY\tGROWTH\tREAL RATE\tRISK APPETITE\tPOSITIONING")
	for _, r := range regimes {
		wt := scoring.Weights(r)
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r, wt.RatePolicy, wt.GrowthMomentum, wt.RealRateEdge, wt.RiskAppetite, models.PositioningWeight)
	}
	return tw.Flush()
}

func writeScores(w io.Writer, scores []models.CompositeCurrencyScore) error {
	tw := table(w)
	fmt.Fprintln(tw, "CURRENCY\tRATE POLICY\tGROWTH\tREAL RATE\tRISK APPETITE\tPOSITIONING\tTOTAL")
	for _, s := range scores {
		fmt.Fprintf(tw, "%s\t%+.3f\t%+.3f\t%+.3f\t%+.3f\t%+.3f\t%+.3f\n",
			s.Currency, s.RatePolicy, s.GrowthMomentum, s.RealRateEdge, s.RiskAppetite, s.Positioning, s.TotalScore)
	}
	return tw.Flush()
}

func writeSignals(w io.Writer, signals []models.PairSignal) error {
	tw := table(w)
	fmt.Fprintln(tw, "PAIR\tDIFF\tBIAS\tSTRENGTH\tCONFIDENCE")
	for _, s := range signals {
		fmt.Fprintf(tw, "%s\t%+.3f\t%s\t%s\t%s\n", s.Pair, s.ScoreDifferential, s.Bias, s.Strength, s.Confidence)
	}
	return tw.Flush()
}
