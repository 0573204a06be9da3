package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/plsync/plsync/internal/shared"
	"github.com/plsync/plsync/internal/tasks"
)

// reviewRow is one selectable entry in a review list.
type reviewRow struct {
	label    string
	selected bool
}

// reviewModel is a multi-select list shared by the fuzzy-match and orphan
// review views.
type reviewModel struct {
	title     string
	rows      []reviewRow
	cursor    int
	confirmed bool
	aborted   bool
	help      help.Model
	keys      keyMap
	height    int
}

func newReviewModel(title string, labels []string, preselected bool) *reviewModel {
	rows := make([]reviewRow, len(labels))
	for i, label := range labels {
		rows[i] = reviewRow{label: label, selected: preselected}
	}
	return &reviewModel{
		title: title,
		rows:  rows,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

func (m *reviewModel) Init() tea.Cmd { return nil }

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case " ":
			m.rows[m.cursor].selected = !m.rows[m.cursor].selected
		case "a":
			for i := range m.rows {
				m.rows[i].selected = true
			}
		case "n":
			for i := range m.rows {
				m.rows[i].selected = false
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *reviewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.title))
	b.WriteString("\n")

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.cursor.Render("> ")
		}
		checkbox := "[ ]"
		if row.selected {
			checkbox = styles.ok.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, checkbox, row.label))
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}

// selectedIndices returns the indices of all checked rows.
func (m *reviewModel) selectedIndices() []int {
	var indices []int
	for i, row := range m.rows {
		if row.selected {
			indices = append(indices, i)
		}
	}
	return indices
}

// runReview runs a review list and returns the confirmed selection.
func runReview(title string, labels []string, preselected bool) ([]int, error) {
	model := newReviewModel(title, labels, preselected)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("review failed: %w", err)
	}
	if model.aborted {
		return nil, shared.ErrReviewAborted
	}
	return model.selectedIndices(), nil
}

// ReviewFuzzyMatches presents uncertain matches for confirmation. Everything
// starts checked; the returned indices refer to the given slice.
func ReviewFuzzyMatches(matches []tasks.FuzzyMatch) ([]int, error) {
	labels := make([]string, len(matches))
	for i, fm := range matches {
		labels[i] = matchLabel(fm)
	}
	title := fmt.Sprintf("Review %d uncertain matches", len(matches))
	return runReview(title, labels, true)
}

// ReviewOrphans presents destination-only tracks for removal. Everything
// starts checked; the returned indices refer to the given slice.
func ReviewOrphans(orphans []tasks.Orphan) ([]int, error) {
	labels := make([]string, len(orphans))
	for i, o := range orphans {
		labels[i] = orphanLabel(o)
	}
	title := fmt.Sprintf("Remove %d tracks not in the source playlist", len(orphans))
	return runReview(title, labels, true)
}
