package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"superengine/audio"
	"superengine/engine"
	"superengine/event"
	"superengine/screens"
)

// GameOptions configure the demo
type GameOptions struct {
	// Audio enables the ebiten audio context
	Audio bool
	// Music is an optional .mp3 or .ogg played on loop
	Music string
}

// Game implements engine.Hooks: a title and menu leading to an asteroid
// field, drawn over a spinning cube
type Game struct {
	opts    GameOptions
	screens *screens.Manager
	audio   *audio.System
	play    *screens.GameScreen
	angle   float64
	subs    []event.Subscription
}

// NewGame creates the demo hooks
func NewGame(opts GameOptions) *Game {
	return &Game{opts: opts}
}

// Preload implements engine.Hooks
func (g *Game) Preload(e *engine.Engine) error {
	if e.ScreenWidth() < 320 || e.ScreenHeight() < 240 {
		return fmt.Errorf("screen %dx%d is smaller than 320x240", e.ScreenWidth(), e.ScreenHeight())
	}
	e.Message("preloading "+e.VersionText(), "")
	return nil
}

// Init implements engine.Hooks
func (g *Game) Init(e *engine.Engine) error {
	log := e.Log()
	g.screens = screens.NewManager(e.Bus(), log)

	if g.opts.Audio {
		g.audio = audio.NewSystem(log)
		if g.opts.Music != "" {
			if err := g.audio.PlayBGM(g.opts.Music); err != nil {
				log.Warnf("music disabled: %v", err)
			}
		}
	}

	g.subs = append(g.subs,
		e.Bus().Subscribe(screens.EventChanged, func(ev event.Event) {
			g.tone(440, 40*time.Millisecond)
		}),
		e.Bus().Subscribe(engine.EventShutdown, func(ev event.Event) {
			log.System("goodbye")
		}),
	)

	title := screens.NewTitleScreen(g.screens, log, func() screens.Screen { return g.mainMenu(e) })
	return g.screens.Push(title)
}

func (g *Game) mainMenu(e *engine.Engine) screens.Screen {
	return screens.NewMenuScreen(e.AppTitle(),
		screens.MenuItem{Label: "Play", Action: func() error {
			g.play = screens.NewGameScreen(g.screens, e.Bus(), e.Log(), e.ScreenWidth(), e.ScreenHeight())
			g.play.OnFire = func() { g.tone(880, 60*time.Millisecond) }
			return g.screens.Push(g.play)
		}},
		screens.MenuItem{Label: "Toggle pacing", Action: func() error {
			p := e.Pacer()
			if p.Mode() == engine.PacingFixed {
				p.SetMode(engine.PacingVariable)
			} else {
				p.SetMode(engine.PacingFixed)
			}
			e.Message("pacing is now "+p.Mode().String(), "")
			return nil
		}},
		screens.MenuItem{Label: "Quit", Action: func() error { return screens.ErrQuit }},
	)
}

func (g *Game) tone(freq float64, dur time.Duration) {
	if g.audio == nil {
		return
	}
	if err := g.audio.PlayTone(freq, dur); err != nil {
		g.audio = nil
	}
}

// Update implements engine.Hooks
func (g *Game) Update(e *engine.Engine, elapsed float64) {
	kb := e.Keyboard()
	if kb.IsJustPressed(ebiten.KeyP) {
		e.SetPaused(!e.IsPaused())
	}
	if e.IsPaused() {
		return
	}

	g.angle = math.Mod(g.angle+45*elapsed, 360)

	err := g.screens.Update(kb, elapsed)
	switch {
	case errors.Is(err, screens.ErrQuit):
		e.Shutdown()
	case err != nil:
		e.FatalError(err.Error(), "")
	case g.screens.Len() == 0:
		e.Shutdown()
	}
}

// Render3D implements engine.Hooks
func (g *Game) Render3D(e *engine.Engine, r *engine.Renderer) {
	r.Begin(engine.DrawQuad)
	for _, f := range cubeFaces(g.angle) {
		r.Color(f.color)
		for _, v := range f.corners {
			r.Vertex(v[0], v[1], v[2])
		}
	}
	r.End()
}

// Render2D implements engine.Hooks
func (g *Game) Render2D(e *engine.Engine, r *engine.Renderer) {
	target := r.Target()
	g.screens.Draw(target)

	hud := fmt.Sprintf("%s  core %d fps  real %d fps", e.VersionText(), e.FrameRateCore(), e.FrameRateReal())
	if e.IsPaused() {
		hud += "  PAUSED"
	}
	ebitenutil.DebugPrintAt(target, hud, 4, 4)
}

// End implements engine.Hooks
func (g *Game) End(e *engine.Engine) {
	for _, s := range g.subs {
		e.Bus().Unsubscribe(s)
	}
	g.subs = nil
	if g.screens != nil {
		g.screens.Clear()
	}
	if g.audio != nil {
		g.audio.Close()
	}
}

// StatusLines implements console.StatusReporter
func (g *Game) StatusLines(e *engine.Engine) []string {
	if g.screens == nil {
		return nil
	}
	ids := make([]string, 0, g.screens.Len())
	for _, id := range g.screens.IDs() {
		ids = append(ids, id.String())
	}
	lines := []string{
		"screens " + strings.Join(ids, " > "),
		fmt.Sprintf("cube %.0f deg", g.angle),
	}
	if g.play != nil {
		lines = append(lines, fmt.Sprintf("entities %d  score %d", g.play.Entities().Len(), g.play.Score()))
	}
	return lines
}

type face struct {
	corners [4]mgl32.Vec3
	color   color.RGBA
	depth   float32
}

var (
	cubeCorners = [8]mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	cubeQuads = [6][4]int{
		{4, 5, 6, 7}, // front
		{1, 0, 3, 2}, // back
		{0, 4, 7, 3}, // left
		{5, 1, 2, 6}, // right
		{7, 6, 2, 3}, // top
		{0, 1, 5, 4}, // bottom
	}
	cubeColors = [6]color.RGBA{
		{220, 60, 60, 255},
		{60, 220, 60, 255},
		{60, 60, 220, 255},
		{220, 220, 60, 255},
		{60, 220, 220, 255},
		{220, 60, 220, 255},
	}
)

// cubeFaces returns the unit cube rotated by angle degrees, ordered back to
// front so later faces paint over earlier ones
func cubeFaces(angle float64) []face {
	rad := float32(angle * math.Pi / 180)
	rot := mgl32.HomogRotate3DY(rad).Mul4(mgl32.HomogRotate3DX(rad / 2))

	faces := make([]face, 0, len(cubeQuads))
	for i, q := range cubeQuads {
		f := face{color: cubeColors[i]}
		for j, idx := range q {
			v := rot.Mul4x1(cubeCorners[idx].Vec4(1)).Vec3()
			f.corners[j] = v
			f.depth += v.Z() / 4
		}
		faces = append(faces, f)
	}

	// camera looks down -Z from +Z
	sort.Slice(faces, func(a, b int) bool { return faces[a].depth < faces[b].depth })
	return faces
}
