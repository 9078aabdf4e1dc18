package cli

import (
	"bytes"
	"strings"
	"testing"
)

// captureUI redirects status lines to a buffer for the rest of the test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name      string
		devices   int
		steps     int
		durations int
		cached    bool
		want      []string
		absent    []string
	}{
		{"fresh", 3, 13, 2, false, []string{"3 devices", "13 steps", "2 durations", "rendered"}, []string{"cached"}},
		{"cached", 2, 4, 1, true, []string{"2 devices", "4 steps", "1 duration", "cached"}, []string{"rendered", "durations"}},
		{"single device no durations", 1, 1, 0, false, []string{"1 device", "1 step"}, []string{"duration", "devices"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.devices, tt.steps, tt.durations, tt.cached)
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("statsLine() = %q, missing %q", got, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("statsLine() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name  string
		print func()
		want  []string
	}{
		{"success", func() { printSuccess("Rendered %s", "pump.toml") }, []string{iconSuccess, "Rendered pump.toml"}},
		{"error", func() { printError("unknown step %d", 7) }, []string{iconError, "unknown step 7"}},
		{"warning", func() { printWarning("File watcher: %s", "queue overflow") }, []string{iconWarning, "File watcher: queue overflow"}},
		{"info", func() { printInfo("Watching %s", "pump.toml") }, []string{iconInfo, "Watching pump.toml"}},
		{"detail", func() { printDetail("%d files", 4) }, []string{"  ", "4 files"}},
		{"file", func() { printFile("out/pump.pdf") }, []string{iconArrow, "out/pump.pdf"}},
		{"key value", func() { printKeyValue("timeout", "30s") }, []string{"timeout", "30s"}},
		{"next step", func() { printNextStep("Preview in the terminal", "seqdiagram preview pump.toml") },
			[]string{"Preview in the terminal:", "seqdiagram preview pump.toml"}},
		{"stats", func() { printStats(2, 4, 1, false) }, []string{"2 devices", "4 steps", "1 duration"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			tt.print()
			out := buf.String()
			if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
				t.Errorf("output = %q, want a single line", out)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output = %q, missing %q", out, s)
				}
			}
		})
	}
}

func TestRenderCommandPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir, "pump.toml", testDefinition)
	buf := captureUI(t)

	if err := runCLI(t, "render", input, "-f", "svg", "--no-cache"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Rendered " + input,
		"2 devices",
		"4 steps",
		"1 duration",
		"rendered",
		"pump.svg",
		"seqdiagram preview " + input,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandStdoutSkipsHint(t *testing.T) {
	dir := t.TempDir()
	input := writeDefinition(t, dir, "pump.toml", testDefinition)
	buf := captureUI(t)

	if err := runCLI(t, "render", input, "-f", "json", "-o", "-", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "seqdiagram preview") {
		t.Errorf("stdout render printed a hint:\n%s", buf.String())
	}
}
