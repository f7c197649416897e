package entity

import (
	"github.com/hajimehoshi/ebiten/v2"

	"superengine/graphics"
)

// ID is unique within one Manager
type ID uint64

// Entity is a named game object. It may carry a sprite and a per-update
// behaviour.
type Entity struct {
	ID   ID
	Name string
	// Tags can be used for quick identification (e.g., "player", "enemy")
	Tags   map[string]bool
	Sprite *graphics.Sprite
	// OnUpdate runs after the sprite has moved and animated
	OnUpdate func(e *Entity, elapsed float64)
}

// New creates an entity with a fresh sprite. It gets its ID when added to
// a Manager.
func New(name string) *Entity {
	return &Entity{
		Name:   name,
		Tags:   make(map[string]bool),
		Sprite: graphics.NewSprite(),
	}
}

// AddTag adds a tag to the entity
func (e *Entity) AddTag(tag string) {
	if e.Tags == nil {
		e.Tags = make(map[string]bool)
	}
	e.Tags[tag] = true
}

// HasTag checks if the entity has a specific tag
func (e *Entity) HasTag(tag string) bool {
	return e.Tags[tag]
}

// RemoveTag removes a tag from the entity
func (e *Entity) RemoveTag(tag string) {
	delete(e.Tags, tag)
}

// Alive is false once the sprite has died
func (e *Entity) Alive() bool {
	return e.Sprite == nil || e.Sprite.Alive
}

func (e *Entity) update(elapsed float64) {
	if e.Sprite != nil {
		e.Sprite.Move(elapsed)
		e.Sprite.Animate(elapsed)
	}
	if e.OnUpdate != nil {
		e.OnUpdate(e, elapsed)
	}
}

func (e *Entity) draw(dst *ebiten.Image) {
	if e.Sprite != nil {
		e.Sprite.Draw(dst)
	}
}
