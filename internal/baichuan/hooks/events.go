// Package hooks implements the event-handler registry for Baichuan session
// events (§4.6 "Event handler"): shell, webhook, and stdio hooks fired when
// the session observes motion, battery, floodlight, or connection-lifecycle
// events.
package hooks

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of BC session event that occurred.
type EventType string

const (
	// EventConnectionUp fires once a session completes login.
	EventConnectionUp EventType = "connection_up"
	// EventConnectionDown fires when a session's transport drops.
	EventConnectionDown EventType = "connection_down"

	// EventMotionStart/EventMotionStop mirror catalog.MotionStarted/Stopped.
	EventMotionStart EventType = "motion_start"
	EventMotionStop  EventType = "motion_stop"

	// EventBattery fires on every battery-status push.
	EventBattery EventType = "battery"

	// EventFloodlight fires on every floodlight-status push.
	EventFloodlight EventType = "floodlight"
)

// Event is a single occurrence that can trigger hooks.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Camera    string                 `json:"camera,omitempty"`
	ChannelID int                    `json:"channel_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates an event stamped with the current time and a unique ID,
// so a webhook receiver or shell hook can dedupe retried deliveries.
func NewEvent(eventType EventType) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Data:      make(map[string]interface{}),
	}
}

// WithCamera sets the originating camera name.
func (e *Event) WithCamera(camera string) *Event {
	e.Camera = camera
	return e
}

// WithChannel sets the channel ID the event concerns.
func (e *Event) WithChannel(channelID int) *Event {
	e.ChannelID = channelID
	return e
}

// WithData adds one data field to the event.
func (e *Event) WithData(key string, value interface{}) *Event {
	if e.Data == nil {
		e.Data = make(map[string]interface{})
	}
	e.Data[key] = value
	return e
}

// String returns a human-readable identifier for logging.
func (e *Event) String() string {
	if e.Camera != "" {
		return string(e.Type) + ":" + e.Camera
	}
	return string(e.Type)
}
