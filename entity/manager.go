package entity

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"superengine/event"
)

const (
	EventAdded   event.Type = "entity.added"
	EventRemoved event.Type = "entity.removed"
)

// Added is emitted after an entity joins the manager
type Added struct {
	Entity *Entity
}

func (Added) Type() event.Type { return EventAdded }

// Removed is emitted after an entity leaves the manager
type Removed struct {
	Entity *Entity
}

func (Removed) Type() event.Type { return EventRemoved }

// Manager holds the live entities in insertion order
type Manager struct {
	entities []*Entity
	byID     map[ID]*Entity
	nextID   ID
	bus      *event.Bus
}

// NewManager creates a manager that reports changes on bus. bus may be nil.
func NewManager(bus *event.Bus) *Manager {
	return &Manager{
		byID: make(map[ID]*Entity),
		bus:  bus,
	}
}

// Add assigns e an ID and starts managing it
func (m *Manager) Add(e *Entity) ID {
	m.nextID++
	e.ID = m.nextID
	if e.Tags == nil {
		e.Tags = make(map[string]bool)
	}
	m.entities = append(m.entities, e)
	m.byID[e.ID] = e
	m.bus.Emit(Added{Entity: e})
	return e.ID
}

// AddNamed creates and adds an entity called name
func (m *Manager) AddNamed(name string) *Entity {
	e := New(name)
	m.Add(e)
	return e
}

// Remove drops the entity with id. It reports whether it was present.
func (m *Manager) Remove(id ID) bool {
	e, ok := m.byID[id]
	if !ok {
		return false
	}
	delete(m.byID, id)
	for i, x := range m.entities {
		if x == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
	m.bus.Emit(Removed{Entity: e})
	return true
}

// Get returns an entity by its ID
func (m *Manager) Get(id ID) *Entity {
	return m.byID[id]
}

// Named returns the first entity called name
func (m *Manager) Named(name string) *Entity {
	for _, e := range m.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Tagged returns all entities with a specific tag
func (m *Manager) Tagged(tag string) []*Entity {
	entities := make([]*Entity, 0)
	for _, e := range m.entities {
		if e.HasTag(tag) {
			entities = append(entities, e)
		}
	}
	return entities
}

// All returns a copy of the entities in insertion order
func (m *Manager) All() []*Entity {
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Len returns the number of managed entities
func (m *Manager) Len() int {
	return len(m.entities)
}

// Update moves and animates every entity then removes the ones whose
// sprite died
func (m *Manager) Update(elapsed float64) {
	for _, e := range m.All() {
		e.update(elapsed)
	}

	var dead []ID
	for _, e := range m.entities {
		if !e.Alive() {
			dead = append(dead, e.ID)
		}
	}
	for _, id := range dead {
		m.Remove(id)
	}
}

// Draw draws every entity's sprite in insertion order
func (m *Manager) Draw(dst *ebiten.Image) {
	for _, e := range m.entities {
		e.draw(dst)
	}
}

// Print writes one line per entity
func (m *Manager) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d entities\n", len(m.entities)); err != nil {
		return err
	}
	for _, e := range m.entities {
		line := fmt.Sprintf("  #%d %q", e.ID, e.Name)
		if len(e.Tags) > 0 {
			tags := make([]string, 0, len(e.Tags))
			for t := range e.Tags {
				tags = append(tags, t)
			}
			sort.Strings(tags)
			line += " [" + strings.Join(tags, ",") + "]"
		}
		if s := e.Sprite; s != nil {
			line += fmt.Sprintf(" at (%.1f, %.1f)", s.Position.X, s.Position.Y)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
