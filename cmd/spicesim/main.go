// Command spicesim is the CLI front end: positional netlist path, an
// analysis override flag, and an output sink. It is the collaborator
// surface spec.md §6 describes as outside the core's contract, built on the
// standard `flag` package directly on edp1096-toy-spice/cmd/main.go, which
// uses `flag` (no CLI framework appears anywhere in the example pack).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/icmhg/spicesim/pkg/analysis"
	"github.com/icmhg/spicesim/pkg/circuit"
	"github.com/icmhg/spicesim/pkg/export"
	"github.com/icmhg/spicesim/pkg/netlist"
	"github.com/icmhg/spicesim/pkg/solver"
)

func main() {
	op := flag.Bool("op", false, "run an operating-point analysis")
	tran := flag.String("tran", "", "run a transient analysis: <t_step> <t_stop>")
	dc := flag.String("dc", "", "run a DC sweep: <source> <start> <stop> <step>")
	output := flag.String("output", "", "output file path (default: stdout)")
	format := flag.String("format", "csv", "output format: csv or json")
	verbose := flag.Bool("verbose", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: spicesim [--op|--tran ...|--dc ...] [--output file] [--format csv|json] <netlist>")
	}
	netlistPath := flag.Arg(0)

	if *verbose {
		log.Printf("reading netlist: %s", netlistPath)
	}
	content, err := os.ReadFile(netlistPath)
	if err != nil {
		log.Fatalf("reading netlist: %v", err)
	}

	circ, dirs, err := netlist.Parse(string(content))
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}

	cfg := solver.DefaultConfig()
	result, err := runAnalysis(circ, dirs, *op, *tran, *dc, cfg, *verbose)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "json":
		err = export.WriteJSON(w, result)
	case "csv":
		err = export.WriteCSV(w, result)
	default:
		log.Fatalf("unknown format %q (want csv or json)", *format)
	}
	if err != nil {
		log.Fatalf("writing results: %v", err)
	}

	if !result.Success {
		os.Exit(1)
	}
}

// runAnalysis resolves which analysis to run: an explicit flag wins over
// the netlist's own directive lines, which win over a bare .op default.
func runAnalysis(circ *circuit.Circuit, dirs *netlist.Directives, opFlag bool, tranFlag, dcFlag string, cfg solver.Config, verbose bool) (*analysis.Result, error) {
	switch {
	case opFlag:
		if verbose {
			log.Print("running operating-point analysis")
		}
		return analysis.OperatingPoint(circ, cfg)

	case tranFlag != "":
		tStep, tStop, err := parseTwoValues(tranFlag)
		if err != nil {
			return nil, fmt.Errorf("parsing --tran: %w", err)
		}
		if verbose {
			log.Printf("running transient analysis: step=%v stop=%v", tStep, tStop)
		}
		return analysis.Transient(circ, tStep, tStop, cfg)

	case dcFlag != "":
		src, start, stop, step, err := parseDCFlag(dcFlag)
		if err != nil {
			return nil, fmt.Errorf("parsing --dc: %w", err)
		}
		if verbose {
			log.Printf("running DC sweep on %s: %v -> %v step %v", src, start, stop, step)
		}
		return analysis.DCSweep(circ, src, start, stop, step, cfg)

	case dirs.Tran != nil:
		return analysis.Transient(circ, dirs.Tran.TStep, dirs.Tran.TStop, cfg)

	case dirs.DC != nil:
		return analysis.DCSweep(circ, dirs.DC.Source, dirs.DC.Start, dirs.DC.Stop, dirs.DC.Step, cfg)

	default:
		return analysis.OperatingPoint(circ, cfg)
	}
}

// parseTwoValues splits "--tran"'s value into t_step and t_stop.
func parseTwoValues(s string) (float64, float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 values, got %d", len(fields))
	}
	a, err := netlist.ParseValue(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := netlist.ParseValue(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// parseDCFlag splits "--dc"'s value into source, start, stop and step.
func parseDCFlag(s string) (string, float64, float64, float64, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return "", 0, 0, 0, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	start, err := netlist.ParseValue(fields[1])
	if err != nil {
		return "", 0, 0, 0, err
	}
	stop, err := netlist.ParseValue(fields[2])
	if err != nil {
		return "", 0, 0, 0, err
	}
	step, err := netlist.ParseValue(fields[3])
	if err != nil {
		return "", 0, 0, 0, err
	}
	return fields[0], start, stop, step, nil
}
