// Package ecs provides ECS adapters for drift.
package ecs

import (
	"github.com/phanxgames/drift"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// TileEventType is the Donburi event type for drift tile events.
// Subscribe to this in your ECS systems to receive enter, exit, and click
// events.
var TileEventType = events.NewEventType[drift.TileEvent]()

// TileData mirrors one visible tile as component data.
type TileData struct {
	Key   drift.TileKey
	Cover drift.ImageID
	X, Y  float64
}

// Tile is the component attached to every mirrored tile entity.
var Tile = donburi.NewComponentType[TileData]()

// VisibleTiles matches every mirrored tile entity.
var VisibleTiles = donburi.NewQuery(filter.Contains(Tile))

type donburiStore struct {
	world    donburi.World
	entities map[drift.TileKey]donburi.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Tile events are published to TileEventType and can be consumed with
// events.Subscribe and ProcessEvents. In addition, each visible tile is
// kept as an entity carrying the Tile component: created on enter and
// removed on exit.
func NewDonburiStore(world donburi.World) drift.EntityStore {
	return &donburiStore{
		world:    world,
		entities: make(map[drift.TileKey]donburi.Entity),
	}
}

func (s *donburiStore) EmitEvent(event drift.TileEvent) {
	switch event.Type {
	case drift.EventTileEnter:
		s.enter(event)
	case drift.EventTileExit:
		s.exit(event.Key)
	}
	TileEventType.Publish(s.world, event)
}

func (s *donburiStore) enter(event drift.TileEvent) {
	e, ok := s.entities[event.Key]
	if !ok || !s.world.Valid(e) {
		e = s.world.Create(Tile)
		s.entities[event.Key] = e
	}
	Tile.SetValue(s.world.Entry(e), TileData{
		Key:   event.Key,
		Cover: event.Cover,
		X:     event.Tile.X,
		Y:     event.Tile.Y,
	})
}

func (s *donburiStore) exit(key drift.TileKey) {
	e, ok := s.entities[key]
	if !ok {
		return
	}
	delete(s.entities, key)
	if s.world.Valid(e) {
		s.world.Remove(e)
	}
}
