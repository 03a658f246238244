package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	izziio "github.com/bdekoz/izzi/pkg/io"
)

const sampleValues = `{
  "title": "Release sizes",
  "values": {"alpha": 10, "beta": 10.5, "gamma": 11, "delta": 40, "omega": 0}
}`

// runCLI executes the root command with args in an isolated config and
// cache environment and returns what it wrote to its output stream.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.json"), sampleValues)

	if _, err := runCLI(t, "render", input, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sizes.svg"))
	if err != nil {
		t.Fatalf("render should write sizes.svg: %v", err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "Release sizes") {
		t.Errorf("unexpected svg:\n%.200s", svg)
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.yaml"), "alpha: 10\nbeta: 20\n")
	out := filepath.Join(dir, "out", "chart")

	if _, err := runCLI(t, "render", input, "-f", "svg,json", "-o", out, "--radius", "80"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"chart.svg", "chart.json"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var scene struct {
		Satellites []json.RawMessage `json:"satellites"`
		Title      string            `json:"title"`
	}
	if err := json.Unmarshal(data, &scene); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(scene.Satellites) != 2 {
		t.Errorf("json artifact has %d satellites, want 2", len(scene.Satellites))
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.json"), `{"a": 1}`)
	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{"a": -1}`)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"render"}},
		{"input and pick", []string{"render", good, "--pick", dir}},
		{"negative value", []string{"render", bad, "--no-cache"}},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}},
		{"unknown format", []string{"render", good, "-f", "gif", "--no-cache"}},
		{"bad direction", []string{"render", good, "--direction", "sideways", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.json"), sampleValues)

	if _, err := runCLI(t, "layout", input, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	layoutPath := filepath.Join(dir, "sizes.layout.json")
	l, err := izziio.ImportLayout(layoutPath)
	if err != nil {
		t.Fatalf("layout should write %s: %v", layoutPath, err)
	}
	if len(l.Placements) != 4 || len(l.Elided) != 1 {
		t.Errorf("got %d placements and %d elided, want 4 and 1", len(l.Placements), len(l.Elided))
	}

	if _, err := runCLI(t, "visualize", layoutPath, "--no-cache", "--style", "outline"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sizes.svg")); err != nil {
		t.Errorf("visualize should write sizes.svg: %v", err)
	}
}

func TestLayoutCommandCaches(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.csv"), "id,value\nalpha,1\nbeta,2\n")
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := writeFile(t, filepath.Join(dir, "izzi.toml"), "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	for range 2 {
		if _, err := runCLI(t, "--config", cfgPath, "layout", input); err != nil {
			t.Fatalf("layout: %v", err)
		}
	}
	out, err := runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}
	entries, err := filepath.Glob(filepath.Join(cacheDir, "*", "*.json"))
	if err != nil || len(entries) != 1 {
		t.Errorf("cache holds %d entries, want 1 layout", len(entries))
	}

	if _, err := runCLI(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = filepath.Glob(filepath.Join(cacheDir, "*", "*.json"))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestBatchCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "rendered")
	writeFile(t, filepath.Join(in, "one.json"), `{"a": 1, "b": 2}`)
	writeFile(t, filepath.Join(in, "two.toml"), "[values]\na = 3\nb = 4\n")
	writeFile(t, filepath.Join(in, "notes.md"), "ignored")

	if _, err := runCLI(t, "batch", in, "-o", out, "-j", "2", "--no-cache"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, name := range []string{"one.svg", "two.svg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestBatchCommandReportsFailures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	good := writeFile(t, filepath.Join(in, "good.json"), `{"a": 1}`)
	bad := writeFile(t, filepath.Join(in, "bad.json"), `{"a": -5}`)

	_, err := runCLI(t, "batch", good, bad, "-o", out, "--no-cache")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("err = %v, want one failure reported", err)
	}
	if _, err := os.Stat(filepath.Join(out, "good.svg")); err != nil {
		t.Errorf("good file should still render: %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[radius]", "[collision]", "[server]", `avoidance = "orbit"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version: dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "izzi") {
		t.Error("bash completion should mention the command name")
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestLayoutTableOutputIsJSONFree(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.json"), `{"a": 1}`)
	if _, err := runCLI(t, "layout", input, "--table", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sizes.layout.json")); !os.IsNotExist(err) {
		t.Error("--table should not write a layout file")
	}
}

func TestLayoutJSONIsReadable(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sizes.json"), `{"a": 1, "b": 2}`)
	out := filepath.Join(dir, "custom.json")
	if _, err := runCLI(t, "layout", input, "-o", out, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("layout file is not JSON: %v", err)
	}
	if _, ok := doc["placements"]; !ok {
		t.Error("layout file should have placements")
	}
}
