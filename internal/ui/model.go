// Package ui is the bubbletea front end: it drives the frame scheduler from
// a tick, forwards key and mouse input to the view state and camera, and
// manages the track queue.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/cymatic/internal/player"
	"github.com/olivier-w/cymatic/internal/queue"
	"github.com/olivier-w/cymatic/internal/render"
	"github.com/olivier-w/cymatic/internal/scheduler"
	"github.com/olivier-w/cymatic/internal/util"
	"github.com/olivier-w/cymatic/internal/visualizer"
	"go.uber.org/zap"
)

// Playback is a playing track: an analysis source with transport controls.
type Playback interface {
	scheduler.Source
	TogglePause()
	Paused() bool
	Volume() float64
	AdjustVolume(delta float64)
	Position() time.Duration
	Duration() time.Duration
	Done() <-chan struct{}
	Closed() <-chan struct{}
}

// Opener starts playback of a local file.
type Opener func(path string) (Playback, error)

// chromeRows is the number of terminal rows not available to the canvas.
const chromeRows = 5

type Options struct {
	Scheduler *scheduler.Scheduler
	Surface   *render.Terminal
	Queue     *queue.Queue
	Open      Opener
	FPS       int
	Logger    *zap.Logger
}

// Model is the Bubbletea model for the visualizer screen.
type Model struct {
	sched   *scheduler.Scheduler
	surface *render.Terminal
	queue   *queue.Queue
	open    Opener
	fps     int
	logger  *zap.Logger

	track    Playback
	metadata player.Metadata
	openSeq  int
	status   string

	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool

	dragging     bool
	dragX, dragY int

	width, height int
	quitting      bool
}

func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	q := opts.Queue
	if q == nil {
		q = queue.New(nil)
	}
	return Model{
		sched:   opts.Scheduler,
		surface: opts.Surface,
		queue:   q,
		open:    opts.Open,
		fps:     max(opts.FPS, 1),
		logger:  logger,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.fps), tea.SetWindowTitle("cymatic")}
	if t := m.queue.Current(); t != nil && m.open != nil {
		cmds = append(cmds, openCmd(m.open, m.openSeq, m.queue.CurrentIndex(), t.Path))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case frameTickMsg:
		if m.quitting {
			return m, nil
		}
		m.sched.Tick(m.surface)
		if m.track != nil {
			m.elapsed = m.track.Position()
			m.volume = m.track.Volume()
			m.paused = m.track.Paused()
		}
		return m, tickCmd(m.fps)

	case trackOpenedMsg:
		return m.handleOpened(msg)

	case playbackEndedMsg:
		if msg.track != m.track {
			return m, nil
		}
		m.queue.SetTrackState(m.queue.CurrentIndex(), queue.Done)
		if m.queue.Advance() {
			return m, m.openCurrent()
		}
		m.sched.Unbind()
		m.track = nil
		m.elapsed = m.duration
		m.status = "end of queue"
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.surface.Resize(max(msg.Width, 1), max(msg.Height-chromeRows, 1))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.openSeq++
		if err := m.sched.Close(); err != nil {
			m.logger.Warn("close scheduler", zap.Error(err))
		}
		m.track = nil
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	cam := m.surface.Camera()
	switch msg.String() {
	case " ":
		if m.track != nil {
			m.track.TogglePause()
			m.paused = m.track.Paused()
		}
	case "tab", "v":
		m.sched.CycleMode()
	case "c":
		m.sched.SetMode(visualizer.Cymatic)
	case "w":
		m.sched.SetMode(visualizer.Waveform)
	case "d":
		m.sched.ToggleDark()
	case "left", "h":
		cam.Orbit(-orbitStep, 0)
	case "right", "l":
		cam.Orbit(orbitStep, 0)
	case "up", "k":
		cam.Orbit(0, -orbitStep)
	case "down", "j":
		cam.Orbit(0, orbitStep)
	case "+", "=":
		cam.Zoom(zoomStep)
	case "-", "_":
		cam.Zoom(1 / zoomStep)
	case "0":
		cam.Reset()
	case "]":
		if m.track != nil {
			m.track.AdjustVolume(volStep)
			m.volume = m.track.Volume()
		}
	case "[":
		if m.track != nil {
			m.track.AdjustVolume(-volStep)
			m.volume = m.track.Volume()
		}
	case "n":
		if m.queue.Advance() {
			return m, m.openCurrent()
		}
	case "p":
		if m.queue.Previous() {
			return m, m.openCurrent()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	cam := m.surface.Camera()
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		cam.Zoom(zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		cam.Zoom(1 / zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		cam.Orbit(float64(msg.X-m.dragX)*dragYaw, float64(msg.Y-m.dragY)*dragPitch)
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

// openCurrent starts opening the current queue entry. Results from earlier
// requests are discarded when they arrive.
func (m *Model) openCurrent() tea.Cmd {
	t := m.queue.Current()
	if t == nil || m.open == nil {
		return nil
	}
	m.openSeq++
	m.status = ""
	return openCmd(m.open, m.openSeq, m.queue.CurrentIndex(), t.Path)
}

func (m Model) handleOpened(msg trackOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.openSeq || m.quitting {
		if msg.track != nil {
			msg.track.Close()
		}
		return m, nil
	}

	if msg.err != nil {
		m.queue.SetTrackState(msg.index, queue.Failed)
		m.status = fmt.Sprintf("cannot play %s: %v", m.queue.Track(msg.index).Title, msg.err)
		m.logger.Warn("open track failed", zap.Int("index", msg.index), zap.Error(msg.err))
		m.sched.Unbind()
		m.track = nil
		return m, nil
	}

	if err := m.sched.Bind(msg.track); err != nil {
		m.queue.SetTrackState(msg.index, queue.Failed)
		m.status = fmt.Sprintf("no analysis for %s: %v", m.queue.Track(msg.index).Title, err)
		m.track = nil
		return m, nil
	}

	m.track = msg.track
	m.metadata = msg.meta
	m.duration = msg.track.Duration()
	m.elapsed = 0
	m.volume = msg.track.Volume()
	m.paused = msg.track.Paused()
	m.queue.SetTrackState(msg.index, queue.Playing)
	m.queue.SetTrackTitle(msg.index, msg.meta.Title)
	m.logger.Info("track opened", zap.Int("index", msg.index), zap.String("title", msg.meta.Display()))
	return m, tea.Batch(waitDone(msg.track), tea.SetWindowTitle(windowTitle(msg.meta.Display())))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}
	st := m.sched.State()

	title := m.metadata.Display()
	if title == "" {
		title = "no track"
	}
	freq := "no signal"
	if st.Signal {
		freq = util.FormatFrequency(st.FrequencyHz)
	}
	header := fmt.Sprintf(" %s  %s  %s  %s",
		headerStyle.Render("cymatic"),
		titleStyle.Render(title),
		modeStyle.Render(st.Mode.String()),
		freqStyle.Render(freq))

	elapsed := util.FormatDuration(m.elapsed)
	total := util.FormatDuration(m.duration)
	bar := renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), w/3)
	left := fmt.Sprintf("%s %s %s", elapsed, bar, total)

	state := "▶ playing"
	switch {
	case m.track == nil:
		state = "■ stopped"
	case m.paused:
		state = "❚❚ paused"
	}
	right := renderVolumePercent(m.volume)
	if m.queue.Len() > 1 {
		right = fmt.Sprintf("%d/%d  %s", m.queue.CurrentIndex()+1, m.queue.Len(), right)
	}
	gap := w - len([]rune(left)) - len([]rune(state)) - len(right) - 6
	status := fmt.Sprintf(" %s  %s%s%s",
		timeStyle.Render(left), statusStyle.Render(state), spaces(gap), statusStyle.Render(right))

	bottom := helpStyle.Render(helpText(m.queue.Len() > 1))
	if m.status != "" {
		bottom = errorStyle.Render(m.status)
	}

	return header + "\n\n" + m.surface.View() + "\n" + status + "\n " + bottom
}

func windowTitle(title string) string {
	return "▶ " + title + " · cymatic"
}
