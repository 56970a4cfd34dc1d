package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-mc/internal/montecarlo"
	"github.com/contactkeval/option-mc/internal/pricing"
)

// ConfidenceLevel is the two-sided level of the intervals in the summary.
const ConfidenceLevel = 0.99

// Run is everything one pricing invocation produced.
type Run struct {
	Params   pricing.MarketParams   `json:"params"`
	Seed     uint64                 `json:"seed"`
	Estimate montecarlo.Estimate    `json:"monte_carlo"`
	Analytic *pricing.AnalyticPrice `json:"black_scholes,omitempty"` // nil when the closed form is undefined
}

// currency renders x as dollars with two decimals.
func currency(x float64) string {
	return "$" + decimal.NewFromFloat(x).StringFixed(2)
}

func fixed(x float64, places int32) string {
	return decimal.NewFromFloat(x).StringFixed(places)
}

// WriteSummary prints the Monte Carlo and Black-Scholes prices as text.
func WriteSummary(w io.Writer, run Run) error {
	est := run.Estimate
	callCI, putCI, err := est.ConfidenceInterval(ConfidenceLevel)
	if err != nil {
		return err
	}
	pct := fixed(ConfidenceLevel*100, 0)

	lines := []string{
		fmt.Sprintf("Parameters: S0=%s K=%s T=%s r=%s sigma=%s paths=%d seed=%d",
			fixed(run.Params.Spot, 2), fixed(run.Params.Strike, 2), fixed(run.Params.Maturity, 4),
			fixed(run.Params.Rate, 4), fixed(run.Params.Volatility, 4), est.Paths, run.Seed),
		fmt.Sprintf("Monte Carlo Call Price: %s (s.e. %s, %s%% CI %s-%s)",
			currency(est.Call), fixed(est.CallStdErr, 4), pct, currency(callCI.Lo), currency(callCI.Hi)),
		fmt.Sprintf("Monte Carlo Put Price:  %s (s.e. %s, %s%% CI %s-%s)",
			currency(est.Put), fixed(est.PutStdErr, 4), pct, currency(putCI.Lo), currency(putCI.Hi)),
	}

	if run.Analytic != nil {
		bs := *run.Analytic
		lines = append(lines,
			fmt.Sprintf("Black-Scholes Call Price: %s", currency(bs.Call)),
			fmt.Sprintf("Black-Scholes Put Price:  %s", currency(bs.Put)),
			fmt.Sprintf("Difference (MC - BS): call %s, put %s",
				fixed(est.Call-bs.Call, 4), fixed(est.Put-bs.Put, 4)),
		)
	} else {
		lines = append(lines, "Black-Scholes: undefined for sigma*sqrt(T) = 0")
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
