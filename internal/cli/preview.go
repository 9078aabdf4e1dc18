package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdiagram/pkg/diagram"
	errs "github.com/matzehuels/seqdiagram/pkg/errors"
	"github.com/matzehuels/seqdiagram/pkg/i18n"
	pkgio "github.com/matzehuels/seqdiagram/pkg/io"
	"github.com/matzehuels/seqdiagram/pkg/render/sink"
)

// Preview styles
var (
	previewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	previewNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	previewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// Cell width bounds of the preview, in columns per step.
const (
	minCell     = 2
	maxCell     = 8
	defaultCell = 4
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Preview a definition in the terminal",
		Long: `Show a definition as a text waveform. Use the arrow keys to select a
device, l to switch language, +/- to zoom, r to reload the file and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newPreviewModel(args[0], lang)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "initial language: fr, de, it")
	return cmd
}

// =============================================================================
// previewModel - Interactive diagram preview
// =============================================================================

// previewModel is the bubbletea model of the preview command.
type previewModel struct {
	path    string
	def     pkgio.Definition
	lang    i18n.Lang
	diagram *diagram.Diagram
	err     error

	// cursor is the selected device, as an index into diagram.Tracks.
	cursor int
	cell   int
}

// newPreviewModel loads path. Only a missing or undecodable file is an
// error; an invalid diagram is shown in the preview so it can be fixed
// while the preview is open.
func newPreviewModel(path, lang string) (previewModel, error) {
	m := previewModel{path: path, cell: defaultCell}
	def, err := pkgio.ReadDefinition(path)
	if err != nil {
		return m, err
	}
	if lang != "" {
		def.Lang = lang
	}
	m.def = def
	if m.lang, err = def.Language(); err != nil {
		return m, err
	}
	m.rebuild()
	m.cursor = max(0, m.trackCount()-1)
	return m, nil
}

// rebuild lays the definition out again in the current language.
func (m *previewModel) rebuild() {
	m.def.Lang = string(m.lang)
	m.diagram = nil
	in, err := m.def.Input()
	if err != nil {
		m.err = err
		return
	}
	m.diagram, m.err = diagram.Render(in)
	m.cursor = min(m.cursor, max(0, m.trackCount()-1))
}

func (m *previewModel) reload() {
	def, err := pkgio.ReadDefinition(m.path)
	if err != nil {
		m.err = err
		return
	}
	m.def = def
	m.rebuild()
}

func (m previewModel) trackCount() int {
	if m.diagram == nil {
		return 0
	}
	return len(m.diagram.Tracks)
}

// nextLang returns the language after l in selector order.
func nextLang(l i18n.Lang) i18n.Lang {
	i := slices.Index(i18n.Supported, l)
	return i18n.Supported[(i+1)%len(i18n.Supported)]
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	// Tracks are listed top band first, so "up" moves to a higher index.
	case "up", "k":
		if m.cursor < m.trackCount()-1 {
			m.cursor++
		}
	case "down", "j":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "tab":
		m.lang = nextLang(m.lang)
		m.rebuild()
	case "+", "=":
		m.cell = min(m.cell+1, maxCell)
	case "-":
		m.cell = max(m.cell-1, minCell)
	case "r":
		m.reload()
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(i18n.MustLookup(m.lang).Title))
	b.WriteString("  " + previewDimStyle.Render(m.path+" · "+string(m.lang)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(iconError + " " + errs.UserMessage(m.err)))
		b.WriteString("\n\n")
	}
	if m.diagram != nil {
		b.WriteString(m.waveforms())
		b.WriteString("\n")
		b.WriteString(m.details())
		b.WriteString("\n")
	}

	b.WriteString(previewDimStyle.Render("↑/↓ device  l language  +/- zoom  r reload  q quit"))
	return b.String()
}

// waveforms draws every track, topmost band first, followed by the axis.
func (m previewModel) waveforms() string {
	d := m.diagram
	nameWidth := 0
	for _, t := range d.Tracks {
		nameWidth = max(nameWidth, utf8.RuneCountInString(t.Device))
	}
	pad := func(s string) string {
		return s + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(s)) + "  "
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(d.Title) + "\n\n")
	for i := len(d.Tracks) - 1; i >= 0; i-- {
		t := d.Tracks[i]
		selected := i == m.cursor

		nameStyle := previewNormalStyle
		waveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color))
		if selected {
			nameStyle = previewSelectedStyle
		} else {
			waveStyle = waveStyle.Faint(true)
		}

		for j, row := range sink.Waveform(t.States, m.cell) {
			name := ""
			if j == 1 {
				name = t.Device
			}
			marker := "  "
			if selected && j == 1 {
				marker = "▸ "
			}
			b.WriteString(marker + nameStyle.Render(pad(name)) + waveStyle.Render(row) + "\n")
		}
		if line := sink.AnnotationLine(d, i, m.cell); line != "" {
			b.WriteString("  " + pad("") + previewDimStyle.Render(line) + "\n")
		}
	}

	axis := make([]string, len(d.TimeAxis))
	for i, step := range d.TimeAxis {
		label := strconv.Itoa(step)
		axis[i] = label + strings.Repeat(" ", max(1, m.cell-len(label)))
	}
	b.WriteString("  " + pad("") + previewDimStyle.Render(strings.Join(axis, "")) + "\n")
	b.WriteString("  " + pad("") + previewDimStyle.Render(d.XLabel) + "\n")
	return b.String()
}

// details renders the selected device as a table.
func (m previewModel) details() string {
	t := m.diagram.Tracks[m.cursor]
	b := i18n.MustLookup(m.lang)

	style := b.Solid
	if t.Style == diagram.Dashed {
		style = b.Dashed
	}
	var durations []string
	for _, a := range m.diagram.Annotations {
		if a.Track == m.cursor {
			durations = append(durations, fmt.Sprintf("%g→%s", a.X, a.Text))
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(b.DeviceName, b.LineStyle, b.States, b.Durations).
		Row(t.Device, style, pkgio.FormatFloats(t.States), strings.Join(durations, ", ")).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return previewNormalStyle.Padding(0, 1)
		}).
		Render()
}
