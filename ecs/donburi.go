package ecs

import (
	"github.com/phanxgames/pad"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for pad gesture events.
var GestureEventType = events.NewEventType[pad.GestureEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Gestures
// are queued on GestureEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) pad.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event pad.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}
