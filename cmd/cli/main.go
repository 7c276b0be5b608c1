package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"captable/internal/analysis"
	"captable/internal/captable"
	"captable/internal/config"
	"captable/internal/logger"
	"captable/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log := logger.New(os.Getenv("LOG_VERBOSE") == "true")

	var err error
	switch os.Args[1] {
	case "calculate":
		err = cmdCalculate(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "compare":
		err = cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				fmt.Fprintf(os.Stderr, "  - %s\n", v)
			}
		}
		log.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli calculate --scenario examples/scenarios/series-a.yaml [--out results/rounds.csv] [--exit-out results/exit.csv] [--format table|json]")
	fmt.Println("  cli validate --scenario examples/scenarios/series-a.yaml")
	fmt.Println("  cli compare --scenario examples/scenarios")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - scenario files are YAML or JSON; founders_file is resolved next to the scenario")
	fmt.Println("  - compare accepts comma-separated files or a directory and ranks by founder proceeds")
}

func cmdCalculate(args []string) error {
	fs := pflag.NewFlagSet("calculate", pflag.ExitOnError)
	scenarioPath := fs.StringP("scenario", "s", "", "Path to scenario YAML/JSON")
	outPath := fs.String("out", "", "Optional: write per-round ownership CSV")
	exitOutPath := fs.String("exit-out", "", "Optional: write exit distribution CSV")
	exitValue := fs.Float64("exit-value", -1, "Override the scenario's exit value")
	format := fs.String("format", "table", "Output format: table or json")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		return errors.New("--scenario is required")
	}
	s, err := config.Load(*scenarioPath)
	if err != nil {
		return err
	}
	if *exitValue >= 0 {
		s.ExitValue = *exitValue
	}

	res, err := captable.New().Calculate(*s)
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := writeCSV(*outPath, func(p string) error { return captable.WriteRoundsCSV(p, res.RoundResults) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rounds to %s\n", len(res.RoundResults), *outPath)
	}
	if *exitOutPath != "" {
		if err := writeCSV(*exitOutPath, func(p string) error { return captable.WriteExitCSV(p, res.ExitDistribution) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote exit distribution to %s\n", *exitOutPath)
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary analysis.Summary `json:"summary"`
			Result  *captable.Result `json:"result"`
		}{analysis.Summarize(*s, res), res})
	case "table":
		printResult(*s, res)
		return nil
	default:
		return fmt.Errorf("unsupported format: %q", *format)
	}
}

func cmdValidate(args []string) error {
	fs := pflag.NewFlagSet("validate", pflag.ExitOnError)
	scenarioPath := fs.StringP("scenario", "s", "", "Path to scenario YAML/JSON")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		return errors.New("--scenario is required")
	}
	s, err := config.LoadUnchecked(*scenarioPath)
	if err != nil {
		return err
	}
	if err := config.Validate(s); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d founders, %d rounds)\n", s.Name, len(s.Founders), len(s.Rounds))
	return nil
}

func cmdCompare(args []string) error {
	fs := pflag.NewFlagSet("compare", pflag.ExitOnError)
	scenarioPaths := fs.StringP("scenario", "s", "examples/scenarios", "Comma-separated scenario files or a directory")
	_ = fs.Parse(args)

	paths, err := expandPaths(*scenarioPaths)
	if err != nil {
		return err
	}
	scenarios := make([]model.Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := config.LoadUnchecked(p)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, *s)
	}

	comparisons, err := analysis.Compare(context.Background(), captable.New(), scenarios)
	if err != nil {
		return err
	}
	ranked := analysis.RankByFounderProceeds(comparisons)

	fmt.Printf("%-4s %-42s %-10s %-10s %-10s %-16s %s\n", "rank", "scenario", "founders%", "esop%", "inv%", "founder$", "note")
	for i, c := range ranked {
		note := ""
		if c.Error != "" {
			note = c.Error
			if len(c.Violations) > 0 {
				note += ": " + strings.Join(c.Violations, "; ")
			}
		}
		fmt.Printf(
			"%-4d %-42s %-10.2f %-10.2f %-10.2f %-16s %s\n",
			i+1,
			truncate(c.Label, 42),
			c.Summary.FounderPercentage,
			c.Summary.ESOPPercentage,
			c.Summary.InvestorPercentage,
			money(c.Summary.FounderProceeds),
			note,
		)
	}
	return nil
}

func printResult(s model.Scenario, res *captable.Result) {
	fmt.Printf("%s\n\n", s.Name)
	for _, r := range res.RoundResults {
		fmt.Printf("%d. %s (%s)  pre=%s post=%s price=%s issued=%.0f pool+=%.0f total=%.0f dilution=%.2f%%\n",
			r.Order, r.RoundName, r.RoundType,
			money(r.PreMoney), money(r.PostMoney), money(r.SharePrice),
			r.SharesIssued, r.ESOPSharesAdded, r.TotalShares, r.Dilution,
		)
		for _, c := range r.Conversions {
			fmt.Printf("     converts %s: %s at %s -> %.0f shares\n", c.RoundName, money(c.Amount), money(c.ConversionPrice), c.Shares)
		}
	}
	for _, c := range res.Convertibles {
		if c.Status == captable.ConvertiblePending {
			fmt.Printf("   pending: %s (%s)\n", c.RoundName, money(c.Amount))
		}
	}

	fmt.Printf("\n%-28s %-10s %-16s %-10s %s\n", "stakeholder", "type", "shares", "percent", "exit value")
	for _, row := range res.ExitDistribution {
		fmt.Printf("%-28s %-10s %-16.0f %-10.2f %s\n",
			truncate(row.Name, 28), row.StakeholderType, row.Shares, row.Percentage, money(row.Value))
	}
	fmt.Printf("%-28s %-10s %-16.0f %-10.2f %s\n", "total", "", res.TotalShares,
		captable.TotalPercentage(res.CurrentOwnership), money(captable.TotalExitValue(res.ExitDistribution)))
}

func writeCSV(path string, write func(string) error) error {
	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return write(path)
}

// expandPaths turns a comma-separated list of files and directories into
// scenario file paths. Directories contribute their .yaml/.yml/.json files.
func expandPaths(s string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".yaml", ".yml", ".json":
				if !e.IsDir() {
					out = append(out, filepath.Join(p, e.Name()))
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no scenario files in %q", s)
	}
	return out, nil
}

func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
