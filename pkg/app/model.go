package app

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/onehand/pkg/boundary"
	"gitlab.com/tinyland/lab/onehand/pkg/config"
	"gitlab.com/tinyland/lab/onehand/pkg/gesture"
	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/motion"
	"gitlab.com/tinyland/lab/onehand/pkg/preview"
	"gitlab.com/tinyland/lab/onehand/pkg/store"
	"gitlab.com/tinyland/lab/onehand/pkg/tier"
	"gitlab.com/tinyland/lab/onehand/pkg/viewport"
)

// tiltStep is the simulated tilt per arrow key press, in radians.
const tiltStep = 0.05

// panFraction is the share of the viewport one pan key moves.
const panFraction = 0.1

// memoryCheckInterval is how often host memory is sampled.
const memoryCheckInterval = 10 * time.Second

// Options wires the model to its collaborators. Viewport, Pool and Store
// are required.
type Options struct {
	Viewport *viewport.Viewport
	Pool     *ingest.Pool
	Store    store.Store
	// Source is tilted by the arrow keys. May be nil.
	Source   *motion.SimulatedSource
	Renderer *preview.Renderer
	Zones    *zone.Manager

	Images []image.Image
	Budget ingest.Budget
	UI     config.UIConfig

	// CellW and CellH are the terminal cell size in pixels.
	CellW, CellH int

	Logger *slog.Logger
	// Now overrides the clock used for input timestamps.
	Now func() time.Time
}

// Model is the root bubbletea model. It is the single owner of the
// viewport: every engine call happens inside Update.
type Model struct {
	vp       *viewport.Viewport
	router   *gesture.Router
	rec      *gesture.Recognizer
	pool     *ingest.Pool
	store    store.Store
	source   *motion.SimulatedSource
	renderer *preview.Renderer
	zones    *zone.Manager

	keys KeyMap
	help help.Model
	ui   config.UIConfig

	cellW, cellH int
	width        int
	height       int

	images   []image.Image
	index    int
	budget   ingest.Budget
	loading  bool
	snap     viewport.Snapshot
	upsell   *tier.Upsell
	notice   string
	dragging bool

	lastInput time.Time
	lastTick  time.Time
	now       func() time.Time
	hit       func(tea.MouseMsg) (gesture.Target, bool)

	logger *slog.Logger
}

// New builds the model and subscribes it to viewport events.
func New(opts Options) *Model {
	m := &Model{
		vp:       opts.Viewport,
		pool:     opts.Pool,
		store:    opts.Store,
		source:   opts.Source,
		renderer: opts.Renderer,
		zones:    opts.Zones,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		ui:       opts.UI,
		cellW:    opts.CellW,
		cellH:    opts.CellH,
		images:   opts.Images,
		budget:   opts.Budget,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.zones == nil {
		m.zones = zone.New()
	}
	if m.cellW <= 0 {
		m.cellW = 8
	}
	if m.cellH <= 0 {
		m.cellH = 16
	}
	if m.ui.Tick.Duration <= 0 {
		m.ui.Tick.Duration = time.Second / 60
	}
	m.router = gesture.NewRouter(m.vp, m.logger)
	m.rec = gesture.NewRecognizer(m.ui.LongPress.Duration, m.ui.DoubleTap.Duration)
	m.hit = m.zoneHit
	m.snap = m.vp.Snapshot()
	m.lastInput = m.now()

	m.vp.Subscribe(func(ev viewport.Event) {
		m.snap = ev.Snapshot
		if ev.Kind == viewport.UpsellRequested {
			u := ev.Upsell
			m.upsell = &u
		}
	})
	return m
}

// Init starts the frame clock and ingests the last picked image.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(m.ui.Tick.Duration), MemoryCheckCmd(memoryCheckInterval)}
	if len(m.images) > 0 {
		cmds = append(cmds, m.selectImage(len(m.images)-1))
	}
	return tea.Batch(cmds...)
}

// Snapshot returns the last state the viewport announced.
func (m *Model) Snapshot() viewport.Snapshot {
	return m.snap
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncViewport()
		return m, nil

	case TickEvent:
		m.tick(msg.Time)
		return m, TickCmd(m.ui.Tick.Duration)

	case IngestDoneEvent:
		if msg.Generation != m.vp.Generation() {
			m.logger.Debug("dropping stale ingest result", "index", msg.Index,
				"generation", msg.Generation, "current", m.vp.Generation())
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.notice = fmt.Sprintf("could not load image %d: %v", msg.Index+1, msg.Err)
			m.logger.Warn("ingest failed", "index", msg.Index, "error", msg.Err)
			return m, nil
		}
		if m.vp.ApplyIngest(msg.Generation, msg.Asset) {
			m.notice = ""
		}
		return m, nil

	case PurchaseDoneEvent:
		m.purchaseDone(msg)
		return m, nil

	case MemoryStatusEvent:
		switch {
		case msg.Err != nil:
			m.logger.Debug("memory check failed", "error", msg.Err)
		case msg.Status.Pressure():
			m.vp.OnMemoryPressure()
		}
		return m, MemoryCheckCmd(memoryCheckInterval)

	case tea.KeyMsg:
		m.lastInput = m.now()
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) tick(t time.Time) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = t.Sub(m.lastTick)
	}
	m.lastTick = t

	m.route(m.rec.Poll(t)...)
	m.vp.Tick(dt, t)
	// Readings are pushed after the poll so they age past the debounce
	// window before the next tick applies them.
	if m.source != nil && m.vp.MotionTracking() {
		if a, ok := m.source.Current(); ok {
			m.vp.PushAttitude(a, t)
		}
	}
}

func (m *Model) route(evs ...gesture.Event) {
	for _, ev := range evs {
		m.router.Handle(ev)
	}
}

func (m *Model) tap(t gesture.Target) {
	m.route(gesture.Event{Kind: gesture.Tap, Target: t})
}

// hold toggles a continuous ramp bound to t.
func (m *Model) hold(t gesture.Target, running bool) {
	kind := gesture.LongPressStart
	if running {
		kind = gesture.LongPressEnd
	}
	m.route(gesture.Event{Kind: kind, Target: t})
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.upsell != nil {
		switch {
		case key.Matches(msg, m.keys.Accept):
			id := store.ProductFor(m.upsell.Kind)
			m.upsell = nil
			m.notice = "purchasing " + string(id) + "…"
			return PurchaseCmd(m.store, id)
		case key.Matches(msg, m.keys.Dismiss):
			m.upsell = nil
			return nil
		}
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.ZoomIn):
		m.tap(gesture.ZoomIn)
	case key.Matches(msg, k.ZoomOut):
		m.tap(gesture.ZoomOut)
	case key.Matches(msg, k.ZoomMax):
		m.route(gesture.Event{Kind: gesture.DoubleTap, Target: gesture.ZoomIn})
	case key.Matches(msg, k.ZoomMin):
		m.route(gesture.Event{Kind: gesture.DoubleTap, Target: gesture.ZoomOut})
	case key.Matches(msg, k.HoldZoomIn):
		m.hold(gesture.ZoomIn, m.snap.Zooming)
	case key.Matches(msg, k.HoldZoomOut):
		m.hold(gesture.ZoomOut, m.snap.Zooming)
	case key.Matches(msg, k.RotateCW):
		m.tap(gesture.RotateCW)
	case key.Matches(msg, k.RotateCCW):
		m.tap(gesture.RotateCCW)
	case key.Matches(msg, k.HoldRotateCW):
		m.hold(gesture.RotateCW, m.snap.Rotating)
	case key.Matches(msg, k.HoldRotateCCW):
		m.hold(gesture.RotateCCW, m.snap.Rotating)
	case key.Matches(msg, k.PanUp):
		m.pan(0, -1)
	case key.Matches(msg, k.PanDown):
		m.pan(0, 1)
	case key.Matches(msg, k.PanLeft):
		m.pan(-1, 0)
	case key.Matches(msg, k.PanRight):
		m.pan(1, 0)
	case key.Matches(msg, k.Motion):
		m.tap(gesture.MotionToggle)
		if !m.vp.MotionTracking() && m.snap.HasImage && m.source != nil && !m.source.Available() {
			m.notice = "motion sensor unavailable"
		}
	case key.Matches(msg, k.Recalibrate):
		m.route(gesture.Event{Kind: gesture.DoubleTap, Target: gesture.MotionToggle})
	case key.Matches(msg, k.Orientation):
		m.vp.SetOrientation(nextOrientation(m.snap.Orientation))
	case key.Matches(msg, k.TiltUp):
		m.tilt(-tiltStep, 0)
	case key.Matches(msg, k.TiltDown):
		m.tilt(tiltStep, 0)
	case key.Matches(msg, k.TiltLeft):
		m.tilt(0, -tiltStep)
	case key.Matches(msg, k.TiltRight):
		m.tilt(0, tiltStep)
	case key.Matches(msg, k.Reset):
		m.tap(gesture.Reset)
	case key.Matches(msg, k.Clear):
		m.vp.ResetAll()
		m.loading = false
	case key.Matches(msg, k.NextImage):
		return m.cycleImage(1)
	case key.Matches(msg, k.PrevImage):
		return m.cycleImage(-1)
	case key.Matches(msg, k.BuyPro):
		return PurchaseCmd(m.store, store.ProductPro)
	case key.Matches(msg, k.BuyExtreme):
		return PurchaseCmd(m.store, store.ProductExtremeZoom)
	case key.Matches(msg, k.Restore):
		return RestoreCmd(m.store)
	case key.Matches(msg, k.Help):
		m.toggleHelp()
	}
	return nil
}

// toggleHelp cycles the guide: short, full, hidden.
func (m *Model) toggleHelp() {
	switch {
	case !m.ui.ShowGuide:
		m.ui.ShowGuide = true
		m.help.ShowAll = false
	case !m.help.ShowAll:
		m.help.ShowAll = true
	default:
		m.ui.ShowGuide = false
		m.help.ShowAll = false
	}
	m.syncViewport()
}

// pan moves the image by a fixed share of the viewport as one short drag.
func (m *Model) pan(dx, dy float64) {
	vs := m.snap.Viewport
	m.route(
		gesture.Event{Kind: gesture.DragChanged, Translation: boundary.Offset{X: dx * vs.W * panFraction, Y: dy * vs.H * panFraction}},
		gesture.Event{Kind: gesture.DragEnded},
	)
}

func (m *Model) tilt(dPitch, dRoll float64) {
	if m.source == nil {
		return
	}
	m.source.Tilt(dPitch, dRoll)
}

func nextOrientation(o motion.Orientation) motion.Orientation {
	switch o {
	case motion.Portrait:
		return motion.LandscapeRight
	case motion.LandscapeRight:
		return motion.PortraitUpsideDown
	case motion.PortraitUpsideDown:
		return motion.LandscapeLeft
	default:
		return motion.Portrait
	}
}

func (m *Model) cycleImage(step int) tea.Cmd {
	if len(m.images) < 2 {
		return nil
	}
	i := (m.index + step + len(m.images)) % len(m.images)
	return m.selectImage(i)
}

// selectImage starts ingesting image i off the update loop.
func (m *Model) selectImage(i int) tea.Cmd {
	m.index = i
	m.loading = true
	gen := m.vp.BeginIngest()
	m.logger.Debug("ingest started", "index", i, "generation", gen, "budget", m.budget.String())
	return IngestCmd(m.pool, gen, i, m.images[i], m.budget)
}

func (m *Model) purchaseDone(msg PurchaseDoneEvent) {
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, store.ErrUserCancelled):
			m.notice = "purchase cancelled"
		case errors.Is(msg.Err, store.ErrPending):
			m.notice = "purchase pending approval"
		default:
			m.notice = "purchase failed: " + msg.Err.Error()
		}
		return
	}
	m.vp.SetEntitlement(msg.Entitlement)
	m.upsell = nil
	if msg.Product == "" {
		m.notice = "purchases restored"
	} else {
		m.notice = "unlocked " + string(msg.Product)
	}
}

// handleMouse feeds control presses to the recognizer and image drags to
// the viewport. Cell coordinates are converted to viewport points.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	now := m.now()
	m.lastInput = now
	target, onImage := m.hit(msg)
	x, y := float64(msg.X*m.cellW), float64(msg.Y*m.cellH)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if target != gesture.TargetNone {
			m.route(m.rec.Press(target, now)...)
			return
		}
		if onImage {
			m.dragging = true
			m.route(m.rec.DragMotion(x, y))
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.route(m.rec.DragMotion(x, y))
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			if ev, ok := m.rec.DragRelease(); ok {
				m.route(ev)
			}
			return
		}
		m.route(m.rec.Release(now)...)
	}
}

func (m *Model) zoneHit(msg tea.MouseMsg) (gesture.Target, bool) {
	for _, t := range gesture.Targets() {
		if m.zones.Get(zoneID(t)).InBounds(msg) {
			return t, false
		}
	}
	return gesture.TargetNone, m.zones.Get(imageZone).InBounds(msg)
}

// chromeRows is the number of rows not available to the image: status,
// control bar, message line and the key guide.
func (m *Model) chromeRows() int {
	rows := 3
	if m.ui.ShowGuide {
		rows += lipgloss.Height(m.help.View(m.keys))
	}
	return rows
}

func (m *Model) imageRows() int {
	return max(1, m.height-m.chromeRows())
}

// syncViewport tells the engine how large the image area is in points.
func (m *Model) syncViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.vp.SetViewportSize(boundary.Size{
		W: float64(m.width * m.cellW),
		H: float64(m.imageRows() * m.cellH),
	})
}

func (m *Model) controlsVisible() bool {
	if !m.ui.AutoHide {
		return true
	}
	f := m.snap.Flags
	if f.Zooming || f.Rotating || f.Dragging || m.rec.Held() != gesture.TargetNone {
		return true
	}
	return m.now().Sub(m.lastInput) < m.ui.AutoHideDelay.Duration
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	rows := m.imageRows()

	var b strings.Builder
	b.WriteString(statusLine(m.snap, m.width))
	b.WriteByte('\n')
	b.WriteString(m.zones.Mark(imageZone, m.imageView(rows)))
	b.WriteByte('\n')
	if m.controlsVisible() {
		b.WriteString(renderControls(m.zones, m.snap.Flags, m.ui.Hand, m.width))
	}
	b.WriteByte('\n')
	b.WriteString(m.messageLine())
	if m.ui.ShowGuide {
		b.WriteByte('\n')
		b.WriteString(m.help.View(m.keys))
	}
	return m.zones.Scan(b.String())
}

func (m *Model) imageView(rows int) string {
	placeholder := func(s string) string {
		return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, dimStyle.Render(s))
	}
	switch {
	case m.loading && !m.snap.HasImage:
		return placeholder("loading…")
	case !m.snap.HasImage:
		return placeholder("no image")
	case m.renderer == nil:
		return placeholder("preview disabled")
	}

	s := m.snap
	out, err := m.renderer.Render(m.vp.Asset(), preview.Transform{
		Scale:    s.Scale,
		Rotation: s.Rotation,
		Offset:   s.Offset,
		Viewport: s.Viewport,
	}, m.width, rows)
	if err != nil {
		if !errors.Is(err, preview.ErrDisabled) {
			m.logger.Warn("render preview", "error", err)
		}
		return placeholder("preview disabled")
	}
	return out
}

func (m *Model) messageLine() string {
	if m.upsell != nil {
		name := "Pro"
		if m.upsell.Kind == tier.UpsellExtreme {
			name = "Extreme Zoom"
		}
		return promptStyle.Render(fmt.Sprintf("%s needs %s: y to buy, n for not now", m.upsell.Tier, name))
	}
	return dimStyle.Render(m.notice)
}
