// Package ecs provides ECS adapters for pad's gesture events.
//
// [NewDonburiStore] bridges recognized gestures (pan, rotate, pinch, tap,
// double tap, wheel) into a [Donburi] world as typed events. Subscribe to
// [GestureEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	m.Document().Input().SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
