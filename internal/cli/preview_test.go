package cli

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seqdiagram/pkg/i18n"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m previewModel, keys ...string) previewModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(previewModel)
	}
	return m
}

func TestPreviewModel(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "")
	if err != nil {
		t.Fatal(err)
	}

	if m.lang != i18n.German {
		t.Errorf("lang = %q, want de", m.lang)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want the top track (1)", m.cursor)
	}

	view := m.View()
	for _, want := range []string{"Sequenzdiagramm-Generator", "Pump cycle", "P1", "P2", "2.5s", "Schritt", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreviewNavigation(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "")
	if err != nil {
		t.Fatal(err)
	}

	m = update(t, m, "down")
	if m.cursor != 0 {
		t.Errorf("after down: cursor = %d, want 0", m.cursor)
	}
	m = update(t, m, "down")
	if m.cursor != 0 {
		t.Errorf("cursor moved below the last track: %d", m.cursor)
	}
	m = update(t, m, "up", "up", "up")
	if m.cursor != 1 {
		t.Errorf("cursor moved above the first track: %d", m.cursor)
	}
}

func TestPreviewLanguageSwitch(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "fr")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.View(), "Étape") {
		t.Error("initial language override not applied")
	}

	want := []i18n.Lang{i18n.German, i18n.Italian, i18n.French}
	for _, lang := range want {
		m = update(t, m, "l")
		if m.lang != lang {
			t.Fatalf("lang = %q, want %q", m.lang, lang)
		}
		if m.diagram.XLabel != i18n.MustLookup(lang).Step {
			t.Errorf("x label = %q after switching to %s", m.diagram.XLabel, lang)
		}
	}
}

func TestPreviewZoom(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "")
	if err != nil {
		t.Fatal(err)
	}
	m = update(t, m, "+", "+", "+", "+", "+", "+")
	if m.cell != maxCell {
		t.Errorf("cell = %d, want %d", m.cell, maxCell)
	}
	m = update(t, m, "-", "-", "-", "-", "-", "-", "-", "-")
	if m.cell != minCell {
		t.Errorf("cell = %d, want %d", m.cell, minCell)
	}
}

func TestPreviewReloadShowsErrors(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "")
	if err != nil {
		t.Fatal(err)
	}

	bad := strings.Replace(testDefinition, "states = [0, 1, 1, 0]", "states = [0, 1]", 1)
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, "r")
	if m.err == nil {
		t.Fatal("reload of an invalid definition reported no error")
	}
	if !strings.Contains(m.View(), "length must equal") {
		t.Errorf("view does not show the error:\n%s", m.View())
	}

	if err := os.WriteFile(path, []byte(testDefinition), 0o644); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, "r")
	if m.err != nil || m.diagram == nil {
		t.Errorf("reload after fix: err = %v", m.err)
	}
}

func TestPreviewQuit(t *testing.T) {
	path := writeDefinition(t, t.TempDir(), "pump.toml", testDefinition)
	m, err := newPreviewModel(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q did not return a quit command")
	}
}

func TestNextLang(t *testing.T) {
	if got := nextLang(i18n.Italian); got != i18n.French {
		t.Errorf("nextLang(it) = %q, want fr", got)
	}
}
