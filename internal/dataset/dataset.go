// Package dataset loads conversation datasets for batch comparison.
//
// The on-disk format is a JSON array of conversations, each with a messages
// list of {"role", "content"} objects. Only the first user and assistant
// turns are surfaced; duplicate-intent scanning works on the opening prompt.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Conversation is one loaded record.
type Conversation struct {
	Index     int    // position in the source file
	User      string // first user turn
	Assistant string // first assistant turn
	Full      string // all turns joined, role-prefixed
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type record struct {
	Messages []message `json:"messages"`
}

// Load reads a conversation dataset from path. Records without a user turn
// are kept (with an empty User) so indices stay aligned with the file.
func Load(path string) ([]Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	convs := make([]Conversation, len(records))
	for i, r := range records {
		convs[i] = fromRecord(i, r)
	}
	return convs, nil
}

func fromRecord(index int, r record) Conversation {
	c := Conversation{Index: index}
	var full []string
	for _, m := range r.Messages {
		switch m.Role {
		case "user":
			if c.User == "" {
				c.User = m.Content
			}
		case "assistant":
			if c.Assistant == "" {
				c.Assistant = m.Content
			}
		}
		full = append(full, m.Role+": "+m.Content)
	}
	c.Full = strings.Join(full, "\n")
	return c
}

// UserTexts extracts the first user turn of each conversation, index-aligned
// with the input.
func UserTexts(convs []Conversation) []string {
	out := make([]string, len(convs))
	for i, c := range convs {
		out[i] = c.User
	}
	return out
}
