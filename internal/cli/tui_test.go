package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFindDataFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i, name := range []string{"old.csv", "mid.yaml", "new.json"} {
		path := writeFile(t, filepath.Join(dir, name), "a,1\n")
		mod := now.Add(time.Duration(i-3) * time.Hour)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(dir, "README.md"), "not data")
	writeFile(t, filepath.Join(dir, "sub", "inner.json"), "{}")

	files, err := findDataFiles(dir)
	if err != nil {
		t.Fatalf("findDataFiles() error: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	if got := strings.Join(names, ","); got != "new.json,mid.yaml,old.csv" {
		t.Errorf("files = %s, want newest first without README or subdirectories", got)
	}
	if files[0].Format != "json" || files[2].Format != "csv" {
		t.Errorf("formats = %s, %s", files[0].Format, files[2].Format)
	}
}

func TestFindDataFilesMissingDir(t *testing.T) {
	if _, err := findDataFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("findDataFiles() should fail for a missing directory")
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFileListModelNavigation(t *testing.T) {
	files := []dataFile{{Path: "a.json"}, {Path: "b.json"}, {Path: "c.json"}}
	var m tea.Model = NewFileListModel(".", files)

	for _, k := range []string{"down", "down", "down", "up", "j"} {
		m, _ = m.Update(keyMsg(k))
	}
	if got := m.(FileListModel).Cursor; got != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped at the last row)", got)
	}
	for _, k := range []string{"k", "k", "k"} {
		m, _ = m.Update(keyMsg(k))
	}
	if got := m.(FileListModel).Cursor; got != 0 {
		t.Errorf("Cursor = %d, want 0 (clamped at the first row)", got)
	}

	m, _ = m.Update(keyMsg("down"))
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	sel := m.(FileListModel).Selected
	if sel == nil || sel.Path != "b.json" {
		t.Errorf("Selected = %v, want b.json", sel)
	}
}

func TestFileListModelScrolls(t *testing.T) {
	files := make([]dataFile, 10)
	for i := range files {
		files[i] = dataFile{Path: string(rune('a'+i)) + ".json"}
	}
	m := NewFileListModel(".", files)
	m.Height = 3
	var model tea.Model = m
	for range 5 {
		model, _ = model.Update(keyMsg("down"))
	}
	got := model.(FileListModel)
	if got.Cursor != 5 || got.Offset != 3 {
		t.Errorf("Cursor, Offset = %d, %d; want 5, 3", got.Cursor, got.Offset)
	}
	if !strings.Contains(got.View(), "f.json") || strings.Contains(got.View(), "a.json") {
		t.Error("View should show only the visible window")
	}
}

func TestFileListModelQuit(t *testing.T) {
	m := NewFileListModel(".", []dataFile{{Path: "a.json"}})
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if next.(FileListModel).Selected != nil {
		t.Error("quitting should not select a file")
	}
}

func TestFileListModelEmptyView(t *testing.T) {
	m := NewFileListModel("/data", nil)
	if v := m.View(); !strings.Contains(v, "no json, yaml, toml or csv files") {
		t.Errorf("View() = %q", v)
	}
	if _, cmd := m.Update(keyMsg("enter")); cmd == nil {
		t.Error("enter on an empty list should quit")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now, "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
		{time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "Jan 2, 2020"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
