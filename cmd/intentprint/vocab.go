package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

func runVocab() {
	fs := flag.NewFlagSet("vocab", flag.ExitOnError)
	vocabDir := fs.String("vocab", "", "Vocabulary directory (default: builtin tables)")
	fs.Parse(os.Args[1:])

	store := loadVocab(*vocabDir)
	if err := store.Validate(); err != nil {
		log.Fatalf("vocabulary invalid: %v", err)
	}

	source := *vocabDir
	if source == "" {
		source = os.Getenv("INTENTPRINT_VOCAB")
	}
	if source == "" {
		source = "builtin"
	}
	fmt.Printf("Vocabulary OK (%s): %d tags, %d patterns, %d synonym groups\n\n",
		source, len(store.Tags), len(store.Patterns), len(store.Synonyms))

	fmt.Println(headerStyle.Render("Intent tags"))
	for _, t := range store.Tags {
		line := fmt.Sprintf("  %-24s", t.ID)
		var bits []string
		if len(t.Required) > 0 {
			bits = append(bits, "requires "+strings.Join(t.Required, ","))
		}
		if len(t.Keywords) > 0 {
			bits = append(bits, "keywords "+strings.Join(t.Keywords, ","))
		}
		if t.Parent != "" {
			bits = append(bits, "parent "+t.Parent)
		}
		fmt.Printf("%s %s\n", line, labelStyle.Render(strings.Join(bits, "; ")))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Patterns"))
	for _, p := range store.Patterns {
		fmt.Printf("  %-24s %s\n", p.ID,
			labelStyle.Render(strings.Join(p.Indicators, ", ")))
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Synonym groups"))
	for _, g := range store.Synonyms {
		fmt.Printf("  %-24s %s\n", g.Key,
			labelStyle.Render(strings.Join(g.Synonyms, ", ")))
	}
}
