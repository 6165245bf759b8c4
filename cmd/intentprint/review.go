package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/intentlab/intentprint/internal/report"
)

func runReview() {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	db := fs.String("db", "", "Report database path (default: ~/.intentprint/reports.db)")
	fs.Parse(os.Args[1:])

	path := *db
	if path == "" {
		path = dbPath()
	}
	st, err := report.Open(path)
	if err != nil {
		log.Fatalf("open report database: %v", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(100)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs. Create one with 'intentprint dupes -save <dataset.json>'.")
		return
	}

	m := newReviewModel(st, runs)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("review UI: %v", err)
	}
}

type reviewLevel int

const (
	levelRuns reviewLevel = iota
	levelPairs
)

type runItem struct{ run report.Run }

func (i runItem) Title() string {
	return fmt.Sprintf("%s  %s", i.run.CreatedAt.Local().Format("2006-01-02 15:04"), i.run.Dataset)
}

func (i runItem) Description() string {
	return fmt.Sprintf("%d texts, %d pairs at threshold %.2f", i.run.Texts, i.run.Pairs, i.run.Threshold)
}

func (i runItem) FilterValue() string { return i.run.Dataset }

type pairItem struct{ pair report.Pair }

func (i pairItem) Title() string {
	return fmt.Sprintf("[%.3f] #%d vs #%d  %s", i.pair.Score, i.pair.I, i.pair.J, i.pair.Verdict)
}

func (i pairItem) Description() string {
	return truncate(i.pair.SnippetA, 60) + " | " + truncate(i.pair.SnippetB, 60)
}

func (i pairItem) FilterValue() string { return i.pair.SnippetA + " " + i.pair.SnippetB }

type reviewModel struct {
	store *report.Store
	level reviewLevel

	runs  list.Model
	pairs list.Model

	selected      *report.Pair
	width, height int
}

func newReviewModel(st *report.Store, runs []report.Run) reviewModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("#58a6ff"))

	items := make([]list.Item, len(runs))
	for i, r := range runs {
		items[i] = runItem{run: r}
	}

	runList := list.New(items, delegate, 0, 0)
	runList.Title = "Comparison runs"
	runList.SetShowHelp(false)

	pairList := list.New([]list.Item{}, delegate, 0, 0)
	pairList.SetShowHelp(false)

	return reviewModel{store: st, runs: runList, pairs: pairList}
}

func (m reviewModel) Init() tea.Cmd { return nil }

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.runs.SetSize(msg.Width-4, msg.Height-4)
		m.pairs.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			switch {
			case m.selected != nil:
				m.selected = nil
			case m.level == levelPairs:
				m.level = levelRuns
			default:
				return m, tea.Quit
			}
			return m, nil
		case "enter":
			if m.level == levelRuns {
				if item, ok := m.runs.SelectedItem().(runItem); ok {
					return m.openRun(item.run)
				}
			} else if m.selected == nil {
				if item, ok := m.pairs.SelectedItem().(pairItem); ok {
					p := item.pair
					m.selected = &p
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.level == levelRuns {
		m.runs, cmd = m.runs.Update(msg)
	} else if m.selected == nil {
		m.pairs, cmd = m.pairs.Update(msg)
	}
	return m, cmd
}

func (m reviewModel) openRun(run report.Run) (tea.Model, tea.Cmd) {
	pairs, err := m.store.PairsForRun(run.ID)
	if err != nil {
		return m, nil
	}
	items := make([]list.Item, len(pairs))
	for i, p := range pairs {
		items[i] = pairItem{pair: p}
	}
	m.pairs.SetItems(items)
	m.pairs.Title = fmt.Sprintf("%s (%d pairs)", run.Dataset, len(pairs))
	m.pairs.ResetSelected()
	m.level = levelPairs
	return m, nil
}

func (m reviewModel) View() string {
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58")).
		Render("  [enter]open  [esc]back  [/]search  [q]quit")

	if m.selected != nil {
		return m.detailView() + "\n" + help
	}
	if m.level == levelPairs {
		return m.pairs.View() + "\n" + help
	}
	return m.runs.View() + "\n" + help
}

func (m reviewModel) detailView() string {
	p := m.selected
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Pair #%d vs #%d", p.I, p.J)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s  %s %.3f\n",
		labelStyle.Render("verdict:"), verdictStyle(p.Verdict).Render(p.Verdict),
		labelStyle.Render("score:"), p.Score))
	b.WriteString(fmt.Sprintf("  %s structural %.3f  tag_overlap %.3f  pattern_match %.3f\n\n",
		labelStyle.Render("breakdown:"),
		p.Breakdown.Structural, p.Breakdown.TagOverlap, p.Breakdown.PatternMatch))

	b.WriteString(fmt.Sprintf("  A: %s\n", snippetStyle.Render(p.SnippetA)))
	b.WriteString(fmt.Sprintf("  B: %s\n\n", snippetStyle.Render(p.SnippetB)))

	if len(p.Explanation.MatchedTags) > 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("shared tags:"),
			strings.Join(p.Explanation.MatchedTags, ", ")))
	}
	if len(p.Explanation.MatchedPatterns) > 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("shared patterns:"),
			strings.Join(p.Explanation.MatchedPatterns, ", ")))
	}
	for _, s := range p.Explanation.KeySimilarities {
		b.WriteString("    + " + s + "\n")
	}
	for _, d := range p.Explanation.KeyDifferences {
		b.WriteString("    - " + d + "\n")
	}
	return b.String()
}
