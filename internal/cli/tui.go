package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bdekoz/izzi/pkg/io"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// dataFile is one candidate in the picker.
type dataFile struct {
	Path    string
	Format  string
	Size    int64
	ModTime time.Time
}

// findDataFiles lists the files in dir whose extension names a dataset
// format, newest first.
func findDataFiles(dir string) ([]dataFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []dataFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, err := io.FormatFromPath(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, dataFile{
			Path:    filepath.Join(dir, e.Name()),
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].ModTime.After(files[j].ModTime) })
	return files, nil
}

// =============================================================================
// FileListModel - Interactive data file selection
// =============================================================================

// FileListModel is the bubbletea model for interactive data file selection.
type FileListModel struct {
	Dir      string
	Files    []dataFile
	Cursor   int
	Selected *dataFile
	Height   int
	Offset   int
}

// NewFileListModel creates a new file list model.
func NewFileListModel(dir string, files []dataFile) FileListModel {
	return FileListModel{Dir: dir, Files: files, Height: 15}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Files) == 0 {
				return m, tea.Quit
			}
			f := m.Files[m.Cursor]
			m.Selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Data File"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Dir))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Files) == 0 {
		b.WriteString(listDimStyle.Render("  no json, yaml, toml or csv files here"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Files))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Files[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, filepath.Base(f.Path), f.Format, formatSize(f.Size), formatRelativeTime(f.ModTime)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Format", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Files))))

	return b.String()
}

// pickDataFile runs the picker over dir. It returns "" when the user quits
// without choosing.
func pickDataFile(dir string) (string, error) {
	files, err := findDataFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	final, err := tea.NewProgram(NewFileListModel(dir, files)).Run()
	if err != nil {
		return "", fmt.Errorf("file picker: %w", err)
	}
	if m, ok := final.(FileListModel); ok && m.Selected != nil {
		return m.Selected.Path, nil
	}
	return "", nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}
