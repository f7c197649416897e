package screens

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/event"
	"superengine/input"
	"superengine/logging"
)

var (
	// ErrCloseScreen is returned from Update to pop the screen that returned it
	ErrCloseScreen = errors.New("close screen")
	// ErrQuit is returned from Update to end the program
	ErrQuit = errors.New("quit")
)

// ScreenID identifies the kind of a screen
type ScreenID int

const (
	ScreenNone ScreenID = iota
	ScreenTitle
	ScreenMenu
	ScreenModal
	ScreenDebug
	ScreenGame
)

func (id ScreenID) String() string {
	switch id {
	case ScreenNone:
		return "none"
	case ScreenTitle:
		return "title"
	case ScreenMenu:
		return "menu"
	case ScreenModal:
		return "modal"
	case ScreenDebug:
		return "debug"
	case ScreenGame:
		return "game"
	}
	return fmt.Sprintf("screen(%d)", int(id))
}

// Screen represents a game screen that can be pushed onto the screen stack
type Screen interface {
	ID() ScreenID
	// LoadContent runs when the screen is pushed
	LoadContent() error
	// UnloadContent runs when the screen leaves the stack
	UnloadContent()
	// Update runs for the top screen only
	Update(in input.Keyboard, elapsed float64) error
	Draw(dst *ebiten.Image)
}

// EventChanged is published whenever the top of the stack changes
const EventChanged event.Type = "screen.changed"

// Changed reports a stack transition
type Changed struct {
	From  ScreenID
	To    ScreenID
	Depth int
}

func (Changed) Type() event.Type { return EventChanged }

type transitionKind int

const (
	transitionPush transitionKind = iota
	transitionPop
	transitionReplace
	transitionClear
)

type transition struct {
	kind   transitionKind
	screen Screen
}

// Manager is a stack of screens. Transitions requested while a screen is
// updating are queued and applied once its Update returns.
type Manager struct {
	screens  []Screen
	pending  []transition
	updating bool
	bus      *event.Bus
	log      *logging.Logger
}

// NewManager creates an empty stack. bus may be nil.
func NewManager(bus *event.Bus, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		screens: make([]Screen, 0),
		bus:     bus,
		log:     log,
	}
}

// Push loads s and makes it the top screen
func (m *Manager) Push(s Screen) error {
	if m.updating {
		m.pending = append(m.pending, transition{kind: transitionPush, screen: s})
		return nil
	}
	return m.push(s)
}

// Pop unloads and removes the top screen
func (m *Manager) Pop() {
	if m.updating {
		m.pending = append(m.pending, transition{kind: transitionPop})
		return
	}
	m.pop()
}

// Replace swaps the top screen for s
func (m *Manager) Replace(s Screen) error {
	if m.updating {
		m.pending = append(m.pending, transition{kind: transitionReplace, screen: s})
		return nil
	}
	return m.replace(s)
}

// Clear unloads every screen, top first
func (m *Manager) Clear() {
	if m.updating {
		m.pending = append(m.pending, transition{kind: transitionClear})
		return
	}
	m.clear()
}

// Top returns the top screen without removing it
func (m *Manager) Top() Screen {
	if len(m.screens) == 0 {
		return nil
	}
	return m.screens[len(m.screens)-1]
}

// Len returns the stack depth
func (m *Manager) Len() int {
	return len(m.screens)
}

// IDs lists the stack bottom to top
func (m *Manager) IDs() []ScreenID {
	ids := make([]ScreenID, len(m.screens))
	for i, s := range m.screens {
		ids[i] = s.ID()
	}
	return ids
}

// Update updates the top screen then applies queued transitions.
// ErrCloseScreen is consumed by popping the screen; ErrQuit and any other
// error are returned.
func (m *Manager) Update(in input.Keyboard, elapsed float64) error {
	top := m.Top()
	if top == nil {
		return nil
	}

	m.updating = true
	err := top.Update(in, elapsed)
	m.updating = false

	if errors.Is(err, ErrCloseScreen) {
		m.remove(top)
		err = nil
	}

	if perr := m.flush(); perr != nil && err == nil {
		err = perr
	}
	return err
}

// Draw draws all screens from bottom to top
func (m *Manager) Draw(dst *ebiten.Image) {
	for _, s := range m.screens {
		s.Draw(dst)
	}
}

func (m *Manager) flush() error {
	var first error
	for len(m.pending) > 0 {
		t := m.pending[0]
		m.pending = m.pending[1:]

		var err error
		switch t.kind {
		case transitionPush:
			err = m.push(t.screen)
		case transitionPop:
			m.pop()
		case transitionReplace:
			err = m.replace(t.screen)
		case transitionClear:
			m.clear()
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) topID() ScreenID {
	if top := m.Top(); top != nil {
		return top.ID()
	}
	return ScreenNone
}

func (m *Manager) changed(from ScreenID) {
	to := m.topID()
	m.log.Infof("screen %s -> %s (depth %d)", from, to, len(m.screens))
	m.bus.Emit(Changed{From: from, To: to, Depth: len(m.screens)})
}

func (m *Manager) push(s Screen) error {
	from := m.topID()
	if err := s.LoadContent(); err != nil {
		return fmt.Errorf("load %s screen: %w", s.ID(), err)
	}
	m.screens = append(m.screens, s)
	m.changed(from)
	return nil
}

func (m *Manager) pop() {
	if len(m.screens) == 0 {
		return
	}
	from := m.topID()
	top := m.screens[len(m.screens)-1]
	m.screens = m.screens[:len(m.screens)-1]
	top.UnloadContent()
	m.changed(from)
}

func (m *Manager) replace(s Screen) error {
	from := m.topID()
	if n := len(m.screens); n > 0 {
		top := m.screens[n-1]
		m.screens = m.screens[:n-1]
		top.UnloadContent()
	}
	if err := s.LoadContent(); err != nil {
		m.changed(from)
		return fmt.Errorf("load %s screen: %w", s.ID(), err)
	}
	m.screens = append(m.screens, s)
	m.changed(from)
	return nil
}

func (m *Manager) clear() {
	if len(m.screens) == 0 {
		return
	}
	from := m.topID()
	for i := len(m.screens) - 1; i >= 0; i-- {
		m.screens[i].UnloadContent()
	}
	m.screens = m.screens[:0]
	m.changed(from)
}

// remove drops s wherever it sits in the stack
func (m *Manager) remove(s Screen) {
	for i := len(m.screens) - 1; i >= 0; i-- {
		if m.screens[i] != s {
			continue
		}
		if i == len(m.screens)-1 {
			m.pop()
			return
		}
		from := m.topID()
		m.screens = append(m.screens[:i], m.screens[i+1:]...)
		s.UnloadContent()
		m.changed(from)
		return
	}
}
