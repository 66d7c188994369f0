package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/term-encoding/atoms"
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/target"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	encodingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(22)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectMode int

const (
	modeDecode inspectMode = iota
	modeEncode
)

func (m inspectMode) String() string {
	if m == modeEncode {
		return "encode"
	}
	return "decode"
}

type interactiveModel struct {
	table  *atoms.Table
	target target.Spec
	input  textinput.Model
	mode   inspectMode
}

func newInteractiveModel(spec target.Spec, tab *atoms.Table) *interactiveModel {
	m := &interactiveModel{target: spec, table: tab}
	m.input = textinput.New()
	m.input.Width = 40
	m.input.Focus()
	m.setMode(modeDecode)
	return m
}

func (m *interactiveModel) setMode(mode inspectMode) {
	m.mode = mode
	m.input.SetValue("")
	if mode == modeEncode {
		m.input.Prompt = "kind payload: "
		m.input.Placeholder = "atom 5  |  header tuple 3"
	} else {
		m.input.Prompt = "word: "
		m.input.Placeholder = "0x7ffc000000000005"
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setMode(1 - m.mode)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rows renders the current input under every encoding.
func (m *interactiveModel) rows() []string {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return nil
	}

	var rows []string
	for _, id := range encoding.IDs() {
		text, err := m.evaluate(id, value)
		line := encodingStyle.Render(id.String())
		if err != nil {
			line += errorStyle.Render(err.Error())
		} else {
			line += resultStyle.Render(text)
		}
		if id == m.target.Encoding {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return rows
}

func (m *interactiveModel) evaluate(id encoding.ID, value string) (string, error) {
	if m.mode == modeDecode {
		w, err := parseWord(value)
		if err != nil {
			return "", err
		}
		d, err := describe(id, w, m.table)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	}

	fields := strings.Fields(value)
	header := len(fields) > 0 && fields[0] == "header"
	if header {
		fields = fields[1:]
	}
	if len(fields) != 2 {
		return "", fmt.Errorf("want: [header] <kind> <payload>")
	}
	payload, err := parsePayload(fields[1])
	if err != nil {
		return "", err
	}
	w, err := encodeWord(id.Info(), fields[0], payload, header)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#x", w), nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Term Inspector"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%s (%s) • %s", m.target.Triple, m.target.Encoding, m.mode))
	if m.table != nil {
		b.WriteString(fmt.Sprintf(" • %d atoms", m.table.Len()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for _, row := range m.rows() {
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab decode/encode • esc quit"))
	return b.String()
}

func runInteractive(spec target.Spec, tab *atoms.Table) error {
	p := tea.NewProgram(newInteractiveModel(spec, tab), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
