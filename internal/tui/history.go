// Package tui implements the interactive upload-history browser.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Faqahat/cloudup/internal/store"
	"github.com/Faqahat/cloudup/internal/transform"
	"github.com/Faqahat/cloudup/internal/view"
	"github.com/Faqahat/cloudup/pkg/util"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	More   key.Binding
	Copy   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	More:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load more")),
	Copy:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "copy")),
	Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginLeft(2)
	itemStyle     = lipgloss.NewStyle().PaddingLeft(4)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2).PaddingTop(1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).PaddingLeft(2)
)

// HistoryStore is the subset of the store the browser needs.
type HistoryStore interface {
	List() ([]store.UploadRecord, error)
	DeleteByID(id string) ([]store.UploadRecord, error)
}

// HistoryModel is the bubbletea model for `cloudup history browse`.
type HistoryModel struct {
	store     HistoryStore
	transform transform.Config
	copyFn    func(string) error

	records  []store.UploadRecord
	state    view.State
	cursor   int
	status   string
	err      error
	quitting bool
}

// NewHistory builds the browser over the given store. copyFn places text on
// the clipboard; a nil copyFn disables copying.
func NewHistory(s HistoryStore, cfg transform.Config, copyFn func(string) error) (HistoryModel, error) {
	records, err := s.List()
	if err != nil {
		return HistoryModel{err: err}, err
	}
	return HistoryModel{
		store:     s,
		transform: cfg,
		copyFn:    copyFn,
		records:   records,
		state:     view.NewState(),
	}, nil
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	visible, remaining := m.state.Page(m.records)

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.More):
		if remaining > 0 {
			m.state = m.state.LoadMore()
		}

	case key.Matches(keyMsg, keys.Copy):
		if m.cursor < len(visible) && m.copyFn != nil {
			url := transform.Apply(visible[m.cursor].URL, m.transform)
			// Secondary copy path: a clipboard failure here is not
			// propagated anywhere else.
			if err := m.copyFn(url); err == nil {
				m.status = "Copied " + util.TruncateURL(url)
			} else {
				m.status = "Copy failed"
			}
		}

	case key.Matches(keyMsg, keys.Delete):
		if m.cursor < len(visible) {
			records, err := m.store.DeleteByID(visible[m.cursor].ID)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.records = records
			m.state = m.state.Reset()
			// The reset collapses the window back to one page; the cursor
			// has to land inside it.
			if visible, _ := m.state.Page(m.records); m.cursor >= len(visible) {
				m.cursor = len(visible) - 1
				if m.cursor < 0 {
					m.cursor = 0
				}
			}
			m.status = "Deleted"
		}
	}

	return m, nil
}

func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}
	if len(m.records) == 0 {
		return titleStyle.Render("Upload History") + "\n\n" +
			itemStyle.Render("No uploads yet") + "\n" +
			footerStyle.Render("q quit") + "\n"
	}

	visible, remaining := m.state.Page(m.records)

	out := titleStyle.Render("Upload History") + "\n\n"
	for i, record := range visible {
		line := fmt.Sprintf("%s  %s",
			util.TruncateURL(record.URL),
			timeStyle.Render(util.RelativeTime(record.Time())))
		if i == m.cursor {
			out += selectedStyle.Render("> "+line) + "\n"
		} else {
			out += itemStyle.Render(line) + "\n"
		}
	}

	if m.status != "" {
		out += "\n" + statusStyle.Render(m.status)
	}

	help := "enter copy · d delete · q quit"
	if remaining > 0 {
		help = fmt.Sprintf("l load more (%d remaining) · %s", remaining, help)
	}
	out += "\n" + footerStyle.Render(help) + "\n"
	return out
}

// Err returns the error that terminated the browser, if any.
func (m HistoryModel) Err() error {
	return m.err
}
