// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"fmt"
	"strings"

	"github.com/equityval/opm-engine/internal/valuation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []valuation.Valuation) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		fmt.Printf("--- Results for target %s ---\n", result.TargetSecurityID)
		_, _ = p.Printf("Equity value:           $%.2f\n", result.Backsolve.EquityValue)
		_, _ = p.Printf("Target price per share: $%.6f\n", result.Backsolve.TargetPricePerShare)
		_, _ = p.Printf("Actual price per share: $%.6f\n", result.Backsolve.ActualPricePerShare)
		fmt.Printf("Converged:              %t (%d iterations, residual %.2e)\n",
			result.Backsolve.Converged, result.Backsolve.Iterations, result.Backsolve.ResidualError)

		if result.Resolution != nil {
			_, _ = p.Printf("Resolved price per share at exit: $%.4f (converged=%t, %d iterations)\n",
				result.Resolution.FinalPricePerShare, result.Resolution.Converged, result.Resolution.Iterations)
		}

		fmt.Printf("\nBreakpoint allocations:\n")
		fmt.Printf("Seq | Exercise Price | Call Value     | Incremental    | Security        | Shares       | Part %%  | Cumulative $/sh\n")
		fmt.Printf("___ | ______________ | ______________ | ______________ | ________        | ______       | ______  | _______________\n")
		for _, bp := range result.Backsolve.Breakpoints {
			for _, alloc := range bp.Allocations {
				_, _ = p.Printf("%3d | $%.2f | $%.2f | $%.2f | %-15s | %.0f | %6.2f%% | $%.6f\n",
					bp.Sequence, bp.ExercisePrice, bp.CallValue, bp.IncrementalValue,
					alloc.SecurityID, alloc.ParticipatingShares, alloc.ParticipationPercent,
					alloc.CumulativeValuePerShare)
			}
		}

		fmt.Printf("\nDLOM models:\n")
		fmt.Printf("  Chaffee (protective put):   %6.2f%%\n", result.DLOM.Chaffee)
		fmt.Printf("  Finnerty (average strike):  %6.2f%%\n", result.DLOM.Finnerty)
		fmt.Printf("  Ghaidarov:                  %6.2f%%\n", result.DLOM.Ghaidarov)
		fmt.Printf("  Longstaff:                  %6.2f%%\n", result.DLOM.Longstaff)
		fmt.Printf("  Weighted average:           %6.2f%%\n", result.DLOM.WeightedAverage)
		_, _ = p.Printf("Price per share after DLOM: $%.6f\n", result.DiscountedPricePerShare)

		if i < len(results)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []valuation.Valuation) {
	fmt.Print(CsvString(results))
}

// CsvString renders the per-breakpoint allocation detail for all targets as a
// CSV document. Shared by the CLI and the HTTP API.
func CsvString(results []valuation.Valuation) string {
	var b strings.Builder
	b.WriteString(`"target","sequence","exercisePrice","d1","d2","callValue","incrementalValue","security","participatingShares","participationPct","sectionValue","sectionValuePerShare","cumulativeValue","cumulativeValuePerShare"`)
	b.WriteString("\n")
	for _, result := range results {
		for _, bp := range result.Backsolve.Breakpoints {
			for _, alloc := range bp.Allocations {
				fmt.Fprintf(&b, `"%s",%d,%.2f,%.6f,%.6f,%.2f,%.2f,"%s",%.0f,%.4f,%.2f,%.6f,%.2f,%.6f`,
					result.TargetSecurityID, bp.Sequence, bp.ExercisePrice, bp.D1, bp.D2,
					bp.CallValue, bp.IncrementalValue, alloc.SecurityID, alloc.ParticipatingShares,
					alloc.ParticipationPercent, alloc.SectionValue, alloc.SectionValuePerShare,
					alloc.CumulativeValue, alloc.CumulativeValuePerShare)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
