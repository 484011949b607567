package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/matzehuels/lockgraph/internal/config"
	"github.com/matzehuels/lockgraph/pkg/deps"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// versionPicker asks the user to choose one of versions of name. It returns
// "" when nothing was chosen.
type versionPicker func(ctx context.Context, name string, versions []string) (string, error)

// terminalPicker runs a [VersionListModel] on in when in is a terminal and
// chooses nothing otherwise, so scripts keep the not-found error.
func terminalPicker(in, out *os.File) versionPicker {
	return func(ctx context.Context, name string, versions []string) (string, error) {
		if !term.IsTerminal(in.Fd()) {
			return "", nil
		}
		p := tea.NewProgram(NewVersionListModel(name, versions),
			tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
		final, err := p.Run()
		if err != nil {
			return "", err
		}
		m, ok := final.(VersionListModel)
		if !ok {
			return "", nil
		}
		return m.Selected, nil
	}
}

// chooseVersion handles a lookup that failed because no version was given
// and the source holds several: it offers them and, on a choice, stores it
// in cfg. It reports whether the lookup should be retried.
func (c *CLI) chooseVersion(ctx context.Context, cfg *config.Config, err error) bool {
	var nf *deps.NotFoundError
	if c.pick == nil || cfg.Version != "" || !stderrors.As(err, &nf) || len(nf.Available) < 2 {
		return false
	}
	logger := loggerFromContext(ctx)
	v, perr := c.pick(ctx, nf.Name, nf.Available)
	if perr != nil {
		logger.Warn("version selection failed", "error", perr)
		return false
	}
	if v == "" {
		return false
	}
	logger.Info("Selected version", "package", nf.Name, "version", v)
	cfg.Version = v
	return true
}

// =============================================================================
// VersionListModel - Interactive version selection
// =============================================================================

// VersionListModel is the bubbletea model for choosing which locked version
// of a package to graph.
type VersionListModel struct {
	Package  string
	Versions []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewVersionListModel creates a version list for pkg.
func NewVersionListModel(pkg string, versions []string) VersionListModel {
	return VersionListModel{Package: pkg, Versions: versions, Height: 10}
}

func (m VersionListModel) Init() tea.Cmd {
	return nil
}

func (m VersionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Versions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Versions) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Versions[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m VersionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select " + m.Package + " version"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Versions))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.Versions[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.Versions[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Versions))))
	return b.String()
}
