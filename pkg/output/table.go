package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ImageRow is one row of the container selection table.
type ImageRow struct {
	Target string
	Tier   string
	Image  string
}

// Field is a labeled value in a plan summary.
type Field struct {
	Name  string
	Value string
}

// Images prints the container selection table.
func (p *Printer) Images(rows []ImageRow) {
	if len(rows) == 0 {
		return
	}

	p.Section("CONTAINERS")

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(p.tableStyle())

	t.AppendHeader(table.Row{"Target", "Tier", "Image"})

	prev := ""
	for _, r := range rows {
		name := r.Target
		if name == prev {
			name = ""
		}
		prev = r.Target

		tier := r.Tier
		if p.isTTY && tier == "auto" {
			tier = lipgloss.NewStyle().Foreground(ColorAmber).Render(tier)
		}
		t.AppendRow(table.Row{name, tier, r.Image})
	}

	t.Render()
	p.Println()
}

// Summary prints a two-column plan summary.
func (p *Printer) Summary(title string, fields []Field) {
	if len(fields) == 0 {
		return
	}

	p.Section(title)

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(p.tableStyle())

	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = "-"
			if p.isTTY {
				value = lipgloss.NewStyle().Foreground(ColorMuted).Render(value)
			}
		}
		t.AppendRow(table.Row{f.Name, value})
	}

	t.Render()
	p.Println()
}

// colorState applies color to a pass/fail result.
func colorState(state string) string {
	var style lipgloss.Style
	switch state {
	case "success", "passed":
		style = lipgloss.NewStyle().Foreground(ColorGreen)
	case "failed", "error":
		style = lipgloss.NewStyle().Foreground(ColorRed)
	default:
		style = lipgloss.NewStyle().Foreground(ColorGray)
	}
	return style.Render(state)
}

// Result prints the final outcome line.
func (p *Printer) Result(state, detail string) {
	if p.isTTY {
		state = colorState(state)
	}
	if detail == "" {
		p.Println(state)
		return
	}
	p.Println(state + "  " + detail)
}

// tableStyle returns the standard amber-themed table style.
func (p *Printer) tableStyle() table.Style {
	style := table.StyleRounded
	if p.isTTY {
		style.Color.Header = text.Colors{text.FgHiYellow, text.Bold}
		style.Color.Border = text.Colors{text.FgHiBlack}
	}
	style.Options.SeparateRows = false
	return style
}

// Section prints a section header.
func (p *Printer) Section(title string) {
	if p.isTTY {
		style := lipgloss.NewStyle().Foreground(ColorAmber).Bold(true)
		p.Println(style.Render(title))
	} else {
		p.Println(title)
	}
}
