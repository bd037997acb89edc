package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle   = lipgloss.NewStyle().Width(24)
	statusStyle = lipgloss.NewStyle().Width(10)
)

// row una fila de la salida tabular de setup y check.
type row struct {
	name   string
	ok     bool
	status string
	detail string
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printRows(w io.Writer, rows []row) {
	for _, r := range rows {
		st := passStyle
		if !r.ok {
			st = failStyle
		}
		line := nameStyle.Render(r.name) + statusStyle.Render(st.Render(r.status))
		if d := strings.TrimSpace(r.detail); d != "" {
			line += mutedStyle.Render(d)
		}
		fmt.Fprintln(w, line)
	}
}

func printResult(w io.Writer, ok bool, msg string) {
	if ok {
		fmt.Fprintln(w, passStyle.Render(msg))
		return
	}
	fmt.Fprintln(w, failStyle.Render(msg))
}
