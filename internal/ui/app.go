package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_sound_manager/api"
	"github.com/jscyril/golang_sound_manager/internal/config"
	"github.com/jscyril/golang_sound_manager/internal/player"
	"github.com/jscyril/golang_sound_manager/internal/playlist"
	"github.com/jscyril/golang_sound_manager/internal/recorder"
	"github.com/jscyril/golang_sound_manager/internal/sequence"
	"github.com/jscyril/golang_sound_manager/internal/ui/views"
)

// ErrNoRecording is reported when playing back before anything was recorded
var ErrNoRecording = errors.New("nothing recorded yet")

// Model is the main bubbletea model
type Model struct {
	width int

	playerView views.PlayerView

	player   *player.Player
	recorder *recorder.Recorder
	queue    *playlist.Queue
	keys     config.KeyMap

	msgs   chan tea.Msg
	unsubs []func()

	ctx    context.Context
	cancel context.CancelFunc
	status string
	err    error

	headerStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// ProgressMsg carries a player progress event
type ProgressMsg struct {
	Position float64
	Duration float64
}

// RecordProgressMsg carries a recorder progress event
type RecordProgressMsg struct {
	Position float64
}

// SwitchTrackMsg asks to step through the track queue
type SwitchTrackMsg struct {
	Forward bool
}

// EndedMsg is sent when the current track finishes
type EndedMsg struct{}

// ResultMsg reports the completion of a controller operation
type ResultMsg struct {
	Op  string
	Err error
}

// NewModel creates a new application model
func NewModel(p *player.Player, r *recorder.Recorder, queue *playlist.Queue, keys config.KeyMap) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		width:      80,
		playerView: views.NewPlayerView(80, keys),
		player:     p,
		recorder:   r,
		queue:      queue,
		keys:       keys,
		msgs:       make(chan tea.Msg, 64),
		ctx:        ctx,
		cancel:     cancel,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
	m.playerView.Track = queue.Current()

	m.unsubs = []func(){
		p.OnProgress(func(position, duration float64) { m.send(ProgressMsg{position, duration}) }),
		p.OnEnded(func() { m.send(EndedMsg{}) }),
		p.OnNext(func() { m.send(SwitchTrackMsg{Forward: true}) }),
		p.OnPrevious(func() { m.send(SwitchTrackMsg{Forward: false}) }),
		r.OnProgress(func(position float64) { m.send(RecordProgressMsg{position}) }),
	}

	return m
}

// send forwards a controller event to the program, dropping it when the
// program lags behind
func (m Model) send(msg tea.Msg) {
	select {
	case m.msgs <- msg:
	default:
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// listenForEvents returns a command that waits for the next controller event
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.msgs:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

// run adapts a callback operation into a command reporting a ResultMsg
func (m Model) run(op string, fn func(done func(error))) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Op: op, Err: sequence.Await(m.ctx, fn)}
	}
}

func step(op func(done func(error))) sequence.Step[struct{}] {
	return func(next func(struct{}, error)) {
		op(func(err error) { next(struct{}{}, err) })
	}
}

// playTrack loads track, announces its metadata and starts playback
func (m Model) playTrack(track *api.Track) tea.Cmd {
	p := m.player
	steps := []sequence.Step[struct{}]{
		step(func(done func(error)) { p.Prepare(track.Path, done) }),
		step(func(done func(error)) { p.Options(track.Options(), done) }),
		step(p.Play),
	}
	return m.run("play "+track.Title, func(done func(error)) {
		sequence.Series(steps, func(_ []struct{}, err error) { done(err) })
	})
}

// switchTrack steps through the queue and plays the selected track
func (m Model) switchTrack(forward bool) tea.Cmd {
	track := m.queue.Previous
	if forward {
		track = m.queue.Next
	}
	if t := track(); t != nil {
		return m.playTrack(t)
	}
	return nil
}

func (m Model) playRecording() tea.Cmd {
	path := m.recorder.Filepath()
	if path == "" {
		return func() tea.Msg { return ResultMsg{Op: "play recording", Err: ErrNoRecording} }
	}
	return m.playTrack(&api.Track{ID: "recording", Title: "Recording", Path: path})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.playerView.SetWidth(msg.Width)

	case ProgressMsg:
		m.playerView.ProgressBar.SetProgress(msg.Position, msg.Duration)
		cmds = append(cmds, m.listenForEvents())

	case RecordProgressMsg:
		m.playerView.RecordedMs = msg.Position
		cmds = append(cmds, m.listenForEvents())

	case EndedMsg:
		m.status = "playback completed"
		cmds = append(cmds, m.listenForEvents())

	case SwitchTrackMsg:
		cmds = append(cmds, m.switchTrack(msg.Forward), m.listenForEvents())

	case ResultMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Op
		}

	case tea.KeyMsg:
		if cmd, quit := m.handleKey(msg.String()); quit {
			m.shutdown()
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case m.keys.Quit, "ctrl+c":
		return nil, true

	case m.keys.PlayFirst, m.keys.PlaySecond:
		index := 0
		if key == m.keys.PlaySecond {
			index = 1
		}
		track, err := m.queue.JumpTo(index)
		if err != nil {
			return func() tea.Msg { return ResultMsg{Op: "select track", Err: err} }, false
		}
		return m.playTrack(track), false

	case m.keys.Pause:
		return m.run("pause", m.player.Pause), false

	case m.keys.Seek:
		target := m.player.CurrentTime() * 1.5
		return m.run(fmt.Sprintf("seek %.0fms", target), func(done func(error)) {
			m.player.Seek(target, done)
		}), false

	case m.keys.Next:
		return m.switchTrack(true), false

	case m.keys.Previous:
		return m.switchTrack(false), false

	case m.keys.Prepare:
		return m.run("prepare recorder", func(done func(error)) {
			m.recorder.Prepare(func(err error, _ *api.RecordInfo) { done(err) })
		}), false

	case m.keys.ToggleRecord:
		return m.run("toggle record", func(done func(error)) {
			m.recorder.ToggleRecord(func(err error, _ bool) { done(err) })
		}), false

	case m.keys.PlayRecording:
		return m.playRecording(), false
	}
	return nil, false
}

// refresh copies controller state into the view
func (m *Model) refresh() {
	m.playerView.Track = m.queue.Current()
	m.playerView.State = m.player.State()
	m.playerView.Volume = m.player.Volume()
	m.playerView.Recorder = m.recorder.State()
	m.playerView.Recording = m.recorder.Filepath()
}

func (m Model) shutdown() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.cancel()
}

// View renders the UI
func (m Model) View() string {
	var sb string

	sb += m.headerStyle.Render("♪ soundctl")
	sb += "\n"
	sb += m.playerView.View()

	if m.status != "" {
		sb += "\n" + m.status
	}
	if m.err != nil {
		sb += "\n" + m.errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return sb
}

// Run starts the bubbletea program
func Run(p *player.Player, r *recorder.Recorder, queue *playlist.Queue, keys config.KeyMap) error {
	model := NewModel(p, r, queue, keys)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	_, err := prog.Run()
	model.shutdown()
	return err
}
