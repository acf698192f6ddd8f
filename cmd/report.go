package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
)

// csvHeader is the first row of the results file.
var csvHeader = []string{"Scenario", "Agents", "Avg Wait", "Avg Queue", "Throughput", "Utilization", "Arrived", "Finished"}

// roundTo rounds v to the given number of decimals for display.
// Engine values stay unrounded; only the report rounds.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func formatRounded(v float64, decimals int) string {
	return strconv.FormatFloat(roundTo(v, decimals), 'f', -1, 64)
}

// printResults writes one block per scenario.
func printResults(w io.Writer, results []callcenter.RunResult) {
	for _, r := range results {
		fmt.Fprintf(w, "\n%s:\n", r.Label)
		fmt.Fprintf(w, "  Agents: %d\n", r.Agents)
		fmt.Fprintf(w, "  Average Wait (min): %s\n", formatRounded(r.AverageWait, 2))
		fmt.Fprintf(w, "  Average Queue Length: %s\n", formatRounded(r.AverageQueueLength, 2))
		fmt.Fprintf(w, "  Throughput (calls/min): %s\n", formatRounded(r.Throughput, 3))
		fmt.Fprintf(w, "  Utilization: %s\n", formatRounded(r.Utilization, 3))
		fmt.Fprintf(w, "  Total Calls Arrived: %d\n", r.ArrivedCalls)
		fmt.Fprintf(w, "  Total Calls Finished: %d\n", r.FinishedCalls)
		fmt.Fprintf(w, "  Wait p50/p90/p99 (min): %s / %s / %s\n",
			formatRounded(r.WaitP50, 2), formatRounded(r.WaitP90, 2), formatRounded(r.WaitP99, 2))
		fmt.Fprintf(w, "  Max Queue Length: %d\n", r.MaxQueueLength)
		fmt.Fprintf(w, "  Busy Utilization: %s\n", formatRounded(r.BusyUtilization, 3))
		if g := r.Grants; g != nil {
			fmt.Fprintf(w, "  Grants: %d (%d immediate, %d queued, mean queued wait %s)\n",
				g.TotalGrants, g.ImmediateGrants, g.QueuedGrants, formatRounded(g.MeanQueuedWait, 2))
		}
		fmt.Fprintln(w, "----------------------------------")
	}
}

func printSaved(w io.Writer, path string) {
	fmt.Fprintf(w, "\nAll scenario results saved to '%s'\n", path)
}

// csvRecords renders results with the same rounding as the console output.
func csvRecords(results []callcenter.RunResult) [][]string {
	records := make([][]string, 0, len(results)+1)
	records = append(records, csvHeader)
	for _, r := range results {
		records = append(records, []string{
			r.Label,
			strconv.Itoa(r.Agents),
			formatRounded(r.AverageWait, 2),
			formatRounded(r.AverageQueueLength, 2),
			formatRounded(r.Throughput, 3),
			formatRounded(r.Utilization, 3),
			strconv.Itoa(r.ArrivedCalls),
			strconv.Itoa(r.FinishedCalls),
		})
	}
	return records
}

// writeCSV writes the results file, replacing any existing one.
func writeCSV(path string, results []callcenter.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(csvRecords(results)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
