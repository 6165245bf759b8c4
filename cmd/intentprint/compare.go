package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/intentlab/intentprint/score"
)

func runCompare() {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	vocabDir := fs.String("vocab", "", "Vocabulary directory (default: builtin tables)")
	asJSON := fs.Bool("json", false, "Emit the full report as JSON")
	withSemantic := fs.Bool("semantic", false, "Refine ambiguous scores with embeddings")
	embThreshold := fs.Float64("embedding-threshold", score.AmbiguousLow,
		"Lowest composite score the semantic filter refines")
	showForms := fs.Bool("forms", false, "Print the canonical forms alongside the report")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: intentprint compare [flags] <promptA> <promptB>")
		fmt.Fprintln(os.Stderr, "       use @file to read a prompt from a file")
		os.Exit(1)
	}

	textA := readArg(args[0])
	textB := readArg(args[1])

	scorer := newScorer(*vocabDir, *withSemantic, *embThreshold)
	ctx := context.Background()

	a := scorer.Analyze(textA)
	b := scorer.Analyze(textB)
	report := scorer.Score(ctx, a, b)

	if *asJSON {
		out := struct {
			A any `json:"a"`
			B any `json:"b"`
			R any `json:"report"`
		}{a, b, report}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("encode report: %v", err)
		}
		return
	}

	fmt.Println(headerStyle.Render("Comparison"))
	fmt.Printf("  A: %s\n", snippetStyle.Render(truncate(textA, 70)))
	fmt.Printf("  B: %s\n", snippetStyle.Render(truncate(textB, 70)))
	fmt.Println()
	renderReport(report)

	if *showForms {
		fmt.Println()
		fmt.Println(headerStyle.Render("Canonical forms"))
		printForm("A", a)
		printForm("B", b)
	}
}

// readArg resolves a prompt argument: @path reads the file, "-" reads stdin
// once, anything else is the literal text.
func readArg(arg string) string {
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		return string(data)
	case len(arg) > 1 && arg[0] == '@':
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			log.Fatalf("read prompt file: %v", err)
		}
		return string(data)
	}
	return arg
}

func printForm(label string, t score.Triple) {
	fmt.Printf("  %s: kind=%s goal=%s interaction=%s roles=%v constraints=%v patterns=%v\n",
		label, t.Form.Kind, t.Form.Goal, t.Form.InteractionPattern,
		t.Form.Roles, t.Form.Constraints, t.Form.Patterns)
	fmt.Printf("      length=%s complexity=%s fingerprint{density=%.2f complexity=%.1f}\n",
		t.Form.Metadata.LengthBucket, t.Form.Metadata.ComplexityBucket,
		t.Print.ConstraintDensity, t.Print.Complexity)
	if tags := t.Tags.All(); len(tags) > 0 {
		fmt.Printf("      tags=%v\n", tags)
	}
}
