// Command intentprint is the CLI for prompt-intent fingerprinting and
// similarity analysis.
//
// Usage:
//
//	intentprint                 Show help
//	intentprint compare A B     Compare two prompts
//	intentprint dupes FILE      Scan a conversation dataset for duplicate intents
//	intentprint demo            Walk through canned comparison scenarios
//	intentprint vocab           Validate and show the active vocabulary
//	intentprint review          Browse saved comparison runs (TUI)
package main

import (
	"fmt"
	"os"

	"github.com/intentlab/intentprint/internal/logging"
)

const usage = `intentprint — prompt intent fingerprinting & similarity CLI

Usage:
  intentprint <command> [flags]

Commands:
  compare     Compare two prompts and print the scored report
  dupes       Scan a conversation dataset for duplicate intents
  demo        Walk through canned comparison scenarios
  vocab       Validate and show the active vocabulary
  review      Browse saved comparison runs (TUI)

Environment:
  INTENTPRINT_VOCAB        Vocabulary directory (defaults to the builtin tables)
  INTENTPRINT_EMBED_MODEL  Embedding model override for the semantic filter
  JINA_API_KEY             Enables the Jina embedding backend
  OLLAMA_HOST              Ollama endpoint (default http://localhost:11434)

Run 'intentprint <command> -h' for command-specific help.
`

func main() {
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	defer logging.Close()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "compare":
		runCompare()
	case "dupes":
		runDupes()
	case "demo":
		runDemo()
	case "vocab":
		runVocab()
	case "review":
		runReview()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "intentprint: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
