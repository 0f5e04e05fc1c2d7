package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/blockgen/pkg/generator"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// =============================================================================
// LanguageListModel - Interactive target language selection
// =============================================================================

// LanguageListModel is the bubbletea model for picking a target language.
type LanguageListModel struct {
	Languages []*generator.Language
	Cursor    int
	Selected  *generator.Language
}

// NewLanguageListModel creates a picker over langs.
func NewLanguageListModel(langs []*generator.Language) LanguageListModel {
	return LanguageListModel{Languages: langs}
}

func (m LanguageListModel) Init() tea.Cmd {
	return nil
}

func (m LanguageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Languages)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Languages) > 0 {
				m.Selected = m.Languages[m.Cursor]
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LanguageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Target Language"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Languages))
	for i, lang := range m.Languages {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, lang.Name, strconv.Itoa(len(lang.Rules)), strconv.Quote(lang.Indent)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Language", "Blocks", "Indent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Languages))))
	return b.String()
}

// pickLanguage runs the picker on the terminal. It returns nil if the user
// quits without choosing.
func pickLanguage(langs []*generator.Language) (*generator.Language, error) {
	final, err := tea.NewProgram(NewLanguageListModel(langs), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("language picker: %w", err)
	}
	return final.(LanguageListModel).Selected, nil
}
