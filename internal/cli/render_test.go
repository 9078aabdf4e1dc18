package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

const testDefinition = `title = "Pump cycle"
lang = "de"

[[devices]]
name = "P1"
states = [0, 1, 1, 0]
durations = [{ step = 1, seconds = 2.5 }]

[[devices]]
name = "P2"
states = [1, 0.5, 0, 0]
style = "--"
`

// writeDefinition writes content to dir/name and returns the path.
func writeDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and a private cache directory.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir, "pump.toml", testDefinition)

	if err := runCLI(t, "render", input, "-f", "pdf,svg,txt"); err != nil {
		t.Fatalf("render: %v", err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "pump.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("pump.pdf is not a PDF")
	}

	txt, err := os.ReadFile(filepath.Join(dir, "pump.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Pump cycle", "P1", "P2", "2.5s", "Schritt"} {
		if !strings.Contains(string(txt), want) {
			t.Errorf("text output missing %q:\n%s", want, txt)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "pump.svg")); err != nil {
		t.Errorf("pump.svg not written: %v", err)
	}
}

func TestRenderCommandOutputAndLanguage(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir, "pump.toml", testDefinition)
	output := filepath.Join(dir, "out", "diagram.txt")

	if err := runCLI(t, "render", input, "-f", "txt", "-o", output, "--lang", "it", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	txt, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(txt), "Passo") {
		t.Errorf("--lang it not applied:\n%s", txt)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeDefinition(t, dir, "ok.toml", testDefinition)
	mismatch := writeDefinition(t, dir, "bad.yaml", "devices:\n  - name: A\n    states: [0, 1]\nmax_step: 4\n")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"missing file", []string{"render", filepath.Join(dir, "nope.toml")}, errs.ErrCodeFileNotFound},
		{"unknown extension", []string{"render", writeDefinition(t, dir, "x.ini", "")}, errs.ErrCodeInvalidDefinition},
		{"length mismatch", []string{"render", mismatch}, errs.ErrCodeLengthMismatch},
		{"bad format", []string{"render", valid, "-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"bad view", []string{"render", valid, "--view", "gantt"}, errs.ErrCodeInvalidView},
		{"bad language", []string{"render", valid, "--lang", "en"}, errs.ErrCodeInvalidLanguage},
		{"stdout with two formats", []string{"render", valid, "-f", "svg,txt", "-o", "-"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"derived from input", "", "dir/pump.toml", []string{"pdf"}, map[string]string{"pdf": "dir/pump.pdf"}},
		{"single explicit", "out.bin", "pump.toml", []string{"pdf"}, map[string]string{"pdf": "out.bin"}},
		{"multiple share base", "out/diagram", "pump.toml", []string{"pdf", "svg"}, map[string]string{"pdf": "out/diagram.pdf", "svg": "out/diagram.svg"}},
		{"format extension stripped", "diagram.svg", "pump.toml", []string{"pdf", "svg"}, map[string]string{"pdf": "diagram.pdf", "svg": "diagram.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "pump.toml", "pump"},
		{"", "a/b/pump.yaml", "a/b/pump"},
		{"out.pdf", "pump.toml", "out"},
		{"out.dot", "pump.toml", "out"},
		{"out.v2", "pump.toml", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "seqdiagram version") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestVerboseFlagSetsDebugLevel(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir, "pump.toml", testDefinition)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-f", "txt", "-v"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if !strings.Contains(logs.String(), "Loaded") {
		t.Errorf("debug log missing:\n%s", logs.String())
	}
}
