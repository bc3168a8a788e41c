package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"url-triage-poc/model"
	"url-triage-poc/vetting"
)

var (
	scanFile    string
	scanJSON    bool
	scanExplain bool
)

// explainedResult is a scan result plus the heuristic rule contributions.
type explainedResult struct {
	model.ScanResult
	Heuristic *vetting.ScoreBreakdown `json:"heuristic,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [url...]",
	Short: "Classify one or more URLs",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && scanFile == "" {
			return fmt.Errorf("provide at least one URL or --file")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := append([]string{}, args...)
		if scanFile != "" {
			fromFile, err := readLines(scanFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}

		results, err := newPipeline().ScanBatch(cmd.Context(), urls, cfg.BatchLimit)
		if err != nil {
			return err
		}

		explained := make([]explainedResult, len(results))
		for i, r := range results {
			explained[i].ScanResult = r
			if scanExplain {
				_, b := vetting.ScoreURLWithBreakdown(r.URL)
				explained[i].Heuristic = &b
			}
		}

		out := cmd.OutOrStdout()
		if scanJSON {
			return printJSON(out, explained)
		}
		for _, r := range explained {
			fmt.Fprintf(out, "%-10s %3d/100  %s  (%s, %s)\n", r.Label, r.RiskScore, r.URL, r.AttackType, r.ResolvedIP)
			fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(r.Evidence, "\n", "\n    "))
			if r.Heuristic != nil {
				fmt.Fprintf(out, "    heuristic: %s\n", formatBreakdown(*r.Heuristic))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "file with one URL per line")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print results as JSON")
	scanCmd.Flags().BoolVar(&scanExplain, "explain", false, "include the heuristic rule breakdown")
}

// readLines returns the non-blank, non-comment lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// formatBreakdown lists the rules that fired, e.g. "keywords +50 [login paypal], raw 50, final 50".
func formatBreakdown(b vetting.ScoreBreakdown) string {
	var parts []string
	add := func(name string, v int) {
		if v > 0 {
			parts = append(parts, fmt.Sprintf("%s +%d", name, v))
		}
	}
	add("length", b.ExcessiveLength)
	add("nesting", b.DeepNesting)
	if b.KeywordPenalty > 0 {
		parts = append(parts, fmt.Sprintf("keywords +%d %v", b.KeywordPenalty, b.KeywordHits))
	}
	if b.AnomalyPenalty > 0 {
		parts = append(parts, fmt.Sprintf("anomalies +%d %v", b.AnomalyPenalty, b.AnomalyHits))
	}
	add("ip-host", b.IPLiteralHost)
	add("punycode", b.PunycodeHost)
	add("obfuscation", b.ObfuscatedHost)
	parts = append(parts, fmt.Sprintf("raw %d", b.RawTotal), fmt.Sprintf("final %d", b.FinalScore))
	return strings.Join(parts, ", ")
}
