// Package ecs provides ECS adapters for drift's tile events.
//
// The primary adapter is [NewDonburiStore], which bridges drift tile events
// (enter, exit, click) into a [Donburi] world as typed events and keeps one
// entity per visible tile. Subscribe to [TileEventType] in your ECS systems
// to receive events, or iterate [VisibleTiles] to walk the current tiles.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	gallery.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
