package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/shared"
)

// pickerModel lets the user choose one collection from a list.
type pickerModel struct {
	list     list.Model
	selected *models.Collection
	aborted  bool
}

func newPickerModel(title string, collections []models.Collection) *pickerModel {
	items := make([]list.Item, len(collections))
	for i, c := range collections {
		items[i] = collectionItem{collection: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return &pickerModel{list: l}
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(collectionItem); ok {
				m.selected = &item.collection
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	return m.list.View()
}

// SelectCollection shows an interactive playlist picker and returns the
// chosen collection. Returns [shared.ErrReviewAborted] when the user backs
// out.
func SelectCollection(title string, collections []models.Collection) (*models.Collection, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("%w: no playlists to choose from", shared.ErrCollectionNotFound)
	}

	model := newPickerModel(title, collections)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("playlist picker failed: %w", err)
	}
	if model.aborted || model.selected == nil {
		return nil, shared.ErrReviewAborted
	}
	return model.selected, nil
}
