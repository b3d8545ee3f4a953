package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/config"
	"github.com/jscyril/golang_sound_manager/internal/ui/components"
)

// PlayerView displays the playback and recording sessions
type PlayerView struct {
	Width       int
	Track       *api.Track
	State       api.MediaState
	Volume      float64
	Recorder    api.MediaState
	RecordedMs  float64
	Recording   string
	ProgressBar components.ProgressBar
	Keys        config.KeyMap

	// Styles
	TitleStyle    lipgloss.Style
	ArtistStyle   lipgloss.Style
	StatusStyle   lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewPlayerView creates a new player view
func NewPlayerView(width int, keys config.KeyMap) PlayerView {
	return PlayerView{
		Width:       width,
		Keys:        keys,
		Volume:      1,
		RecordedMs:  -1,
		ProgressBar: components.NewProgressBar(width - 4),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		ArtistStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// SetWidth resizes the view and its progress bar
func (v *PlayerView) SetWidth(width int) {
	v.Width = width
	v.ProgressBar.Width = width - 4
}

func statusIcon(state api.MediaState) string {
	switch state {
	case api.StatePlaying:
		return "▶"
	case api.StateRecording:
		return "●"
	case api.StatePaused:
		return "⏸"
	case api.StatePreparing, api.StateSeeking:
		return "…"
	case api.StateError:
		return "✗"
	default:
		return "⏹"
	}
}

// View renders the player view
func (v PlayerView) View() string {
	var sb strings.Builder

	if v.Track == nil {
		sb.WriteString(v.TitleStyle.Render("♪ No track loaded"))
	} else {
		sb.WriteString(v.StatusStyle.Render(statusIcon(v.State) + " "))
		sb.WriteString(v.TitleStyle.Render(v.Track.Title))
		sb.WriteString("\n")
		sb.WriteString(v.ArtistStyle.Render(v.Track.Singer))
	}
	sb.WriteString("\n\n")

	sb.WriteString(v.ProgressBar.View())
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Player: %s  Volume: %d%%", v.State, int(v.Volume*100)))
	sb.WriteString("\n\n")

	sb.WriteString(v.StatusStyle.Render(statusIcon(v.Recorder) + " "))
	sb.WriteString(fmt.Sprintf("Recorder: %s  %s", v.Recorder, components.FormatMillis(v.RecordedMs)))
	if v.Recording != "" {
		sb.WriteString("\n")
		sb.WriteString(v.ArtistStyle.Render(v.Recording))
	}

	sb.WriteString("\n")
	sb.WriteString(v.ControlsStyle.Render(v.controls()))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}

func keyLabel(k string) string {
	if k == " " {
		return "Space"
	}
	return k
}

func (v PlayerView) controls() string {
	k := v.Keys
	return fmt.Sprintf(
		"[%s] Play 1  [%s] Play 2  [%s] Pause  [%s] Seek  [%s/%s] Next/Prev\n[%s] Prepare  [%s] Record  [%s] Play record  [%s] Quit",
		keyLabel(k.PlayFirst), keyLabel(k.PlaySecond), keyLabel(k.Pause), keyLabel(k.Seek),
		keyLabel(k.Next), keyLabel(k.Previous),
		keyLabel(k.Prepare), keyLabel(k.ToggleRecord), keyLabel(k.PlayRecording), keyLabel(k.Quit),
	)
}
