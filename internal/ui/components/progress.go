package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_sound_manager/api"
)

// ProgressBar represents a progress bar component
type ProgressBar struct {
	Width       int
	Position    float64 // ms, negative when unknown
	Duration    float64 // ms, negative when unknown
	BarChar     string
	EmptyChar   string
	ShowTime    bool
	Style       lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) ProgressBar {
	return ProgressBar{
		Width:       width,
		Position:    -1,
		Duration:    -1,
		BarChar:     "█",
		EmptyChar:   "░",
		ShowTime:    true,
		Style:       lipgloss.NewStyle(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetProgress sets the play-head position and media duration in ms
func (p *ProgressBar) SetProgress(position, duration float64) {
	p.Position = position
	p.Duration = duration
}

// Ratio returns the filled fraction of the bar
func (p ProgressBar) Ratio() float64 {
	if p.Position < 0 || p.Duration < 0 {
		return 0
	}
	return api.ProgressRatio(p.Position, p.Duration)
}

// View renders the progress bar
func (p ProgressBar) View() string {
	var sb strings.Builder

	barWidth := p.Width - 14 // Leave room for time display
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(float64(barWidth) * p.Ratio())
	empty := barWidth - filled

	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, empty)))

	if p.ShowTime {
		sb.WriteString(" ")
		sb.WriteString(FormatMillis(p.Position))
		sb.WriteString("/")
		sb.WriteString(FormatMillis(p.Duration))
	}

	return p.Style.Render(sb.String())
}

// FormatMillis formats a millisecond offset as MM:SS, or --:-- when unknown
func FormatMillis(ms float64) string {
	if ms < 0 {
		return "--:--"
	}
	d := time.Duration(ms * float64(time.Millisecond)).Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
