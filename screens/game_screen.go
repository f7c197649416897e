package screens

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"superengine/entity"
	"superengine/event"
	"superengine/graphics"
	"superengine/input"
	"superengine/logging"
)

const (
	cellSize    = 16
	turnRate    = 180.0 // degrees per second
	shipSpeed   = 120.0
	rockSpeed   = 40.0
	bulletSpeed = 300.0
	bulletLife  = 1200 * time.Millisecond
	rockCount   = 5
)

// sheet cells
const (
	cellShip = iota
	cellRock
	cellBullet
)

// GameScreen is a small asteroid field exercising sprites, collisions and
// the entity manager
type GameScreen struct {
	*BaseScreen
	manager  *Manager
	log      *logging.Logger
	entities *entity.Manager
	sheet    *graphics.SpriteSheet
	rng      *rand.Rand
	width    float64
	height   float64
	heading  float64
	score    int
	// OnFire runs for every bullet fired
	OnFire func()
}

// NewGameScreen creates a game screen of the given size
func NewGameScreen(m *Manager, bus *event.Bus, log *logging.Logger, width, height int) *GameScreen {
	if log == nil {
		log = logging.Discard()
	}
	return &GameScreen{
		BaseScreen: NewBaseScreen(ScreenGame),
		manager:    m,
		log:        log,
		entities:   entity.NewManager(bus),
		rng:        rand.New(rand.NewSource(1)),
		width:      float64(width),
		height:     float64(height),
		heading:    -90,
	}
}

// LoadContent builds the sprite sheet and spawns the field
func (s *GameScreen) LoadContent() error {
	sheet, err := graphics.NewSpriteSheet(ebiten.NewImageFromImage(shapeSheet()), 3, 1)
	if err != nil {
		return err
	}
	s.sheet = sheet
	s.reset()
	return nil
}

// UnloadContent removes every entity
func (s *GameScreen) UnloadContent() {
	s.clear()
	s.sheet = nil
}

// Entities exposes the entity manager
func (s *GameScreen) Entities() *entity.Manager {
	return s.entities
}

// Score returns the number of rocks destroyed
func (s *GameScreen) Score() int {
	return s.score
}

func (s *GameScreen) clear() {
	for _, e := range s.entities.All() {
		s.entities.Remove(e.ID)
	}
}

func (s *GameScreen) reset() {
	s.clear()
	s.heading = -90

	ship := s.spawn("ship", cellShip, graphics.Vec2{X: s.width/2 - cellSize/2, Y: s.height/2 - cellSize/2})
	ship.AddTag("player")
	ship.Sprite.Rotation = s.heading + 90
	ship.OnUpdate = s.wrap

	for i := 0; i < rockCount; i++ {
		pos := graphics.Vec2{X: s.rng.Float64() * s.width, Y: s.rng.Float64() * s.height / 4}
		rock := s.spawn(fmt.Sprintf("rock%d", i+1), cellRock, pos)
		rock.AddTag("rock")
		rock.Sprite.Collision = graphics.CollisionDist
		rock.Sprite.Heading(s.rng.Float64()*360, rockSpeed)
		rock.OnUpdate = s.wrap
	}
}

func (s *GameScreen) spawn(name string, cell int, pos graphics.Vec2) *entity.Entity {
	e := s.entities.AddNamed(name)
	if s.sheet != nil {
		e.Sprite.SetImage(s.sheet)
	} else {
		e.Sprite.SetFrameSize(cellSize, cellSize)
	}
	e.Sprite.AnimStartX = cell
	e.Sprite.TotalFrames = 1
	e.Sprite.Position = pos
	e.Sprite.Collidable = true
	return e
}

func (s *GameScreen) wrap(e *entity.Entity, elapsed float64) {
	p := &e.Sprite.Position
	p.X = math.Mod(p.X+s.width, s.width)
	p.Y = math.Mod(p.Y+s.height, s.height)
}

func (s *GameScreen) fire(ship *entity.Entity) {
	b := s.spawn("bullet", cellBullet, ship.Sprite.Position)
	b.AddTag("bullet")
	b.Sprite.Lifetime = bulletLife
	b.Sprite.Scale = 0.5
	b.Sprite.Heading(s.heading, bulletSpeed)
	if s.OnFire != nil {
		s.OnFire()
	}
}

// Update steers the ship, moves everything and resolves collisions
func (s *GameScreen) Update(in input.Keyboard, elapsed float64) error {
	if in.IsJustPressed(ebiten.KeyEscape) {
		return ErrCloseScreen
	}
	if in.IsJustPressed(ebiten.KeyF1) {
		return s.manager.Push(NewDebugScreen(s.log.Messages()))
	}

	ship := s.entities.Named("ship")
	if ship != nil {
		if in.IsPressed(ebiten.KeyArrowLeft) {
			s.heading -= turnRate * elapsed
		}
		if in.IsPressed(ebiten.KeyArrowRight) {
			s.heading += turnRate * elapsed
		}
		ship.Sprite.Rotation = s.heading + 90
		if in.IsPressed(ebiten.KeyArrowUp) {
			ship.Sprite.Heading(s.heading, shipSpeed)
		} else {
			ship.Sprite.Velocity = graphics.Vec2{}
		}
		if in.IsJustPressed(ebiten.KeySpace) {
			s.fire(ship)
		}
	}

	s.entities.Update(elapsed)
	return s.collide()
}

func (s *GameScreen) collide() error {
	rocks := s.entities.Tagged("rock")
	hit := make(map[entity.ID]bool)

	for _, b := range s.entities.Tagged("bullet") {
		for _, r := range rocks {
			if hit[r.ID] || !b.Sprite.Collides(r.Sprite) {
				continue
			}
			hit[r.ID], hit[b.ID] = true, true
			s.score++
			s.log.Infof("%s destroyed (score %d)", r.Name, s.score)
			break
		}
	}
	for id := range hit {
		s.entities.Remove(id)
	}

	if ship := s.entities.Named("ship"); ship != nil {
		for _, r := range s.entities.Tagged("rock") {
			if ship.Sprite.Collides(r.Sprite) {
				s.log.Warnf("ship hit %s", r.Name)
				s.reset()
				return s.manager.Push(NewModalScreen("Ship destroyed", fmt.Sprintf("Score: %d", s.score), 240, 80))
			}
		}
	}

	if len(s.entities.Tagged("rock")) == 0 {
		s.log.System("field cleared")
		s.reset()
		return s.manager.Push(NewModalScreen("Field cleared", fmt.Sprintf("Score: %d", s.score), 240, 80))
	}
	return nil
}

// Draw draws every entity and the score line
func (s *GameScreen) Draw(dst *ebiten.Image) {
	s.entities.Draw(dst)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("Score: %d  Entities: %d", s.score, s.entities.Len()), 8, int(s.height)-20)
}

// shapeSheet draws the ship, rock and bullet cells side by side
func shapeSheet() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3*cellSize, cellSize))
	ship := color.RGBA{120, 200, 255, 255}
	rock := color.RGBA{170, 140, 110, 255}
	bullet := color.RGBA{255, 240, 120, 255}

	half := cellSize / 2
	for y := 0; y < cellSize; y++ {
		for x := 0; x < cellSize; x++ {
			// ship: triangle pointing up
			if dx := x - half; dx*2 <= y && -dx*2 <= y {
				img.Set(cellShip*cellSize+x, y, ship)
			}
			dx, dy := float64(x-half)+0.5, float64(y-half)+0.5
			if dx*dx+dy*dy <= float64(half*half) {
				img.Set(cellRock*cellSize+x, y, rock)
			}
			if dx*dx+dy*dy <= 9 {
				img.Set(cellBullet*cellSize+x, y, bullet)
			}
		}
	}
	return img
}
