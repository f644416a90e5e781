package types

import (
	"encoding/json"
	"sync/atomic"
)

// ShellEventType defines the name of an event emitted to the host UI.
type ShellEventType string

const (
	EventTypeTabLoaded      ShellEventType = "tab-loaded"       // EventTypeTabLoaded indicates a surface finished loading a page.
	EventTypeTabNavigated   ShellEventType = "tab-navigated"    // EventTypeTabNavigated indicates a surface is navigating to a new URL.
	EventTypeTabOpenRequest ShellEventType = "tab-open-request" // EventTypeTabOpenRequest asks the host UI to open a URL in a new tab.
	EventTypeSidecarStatus  ShellEventType = "sidecar-status"   // EventTypeSidecarStatus reports the sidecar relay status.
	EventTypeSidecarRequest ShellEventType = "sidecar-request"  // EventTypeSidecarRequest carries an outbound JSON-RPC request.
	EventTypeSidecarMessage ShellEventType = "sidecar-message"  // EventTypeSidecarMessage relays a message received from the sidecar.
	EventTypeDebug          ShellEventType = "claw-debug"       // EventTypeDebug carries instrumentation records from a page.
)

// OpenReason explains why a surface asked for a new tab.
type OpenReason string

const (
	// OpenReasonShiftClick is a modifier click on a link inside the page.
	OpenReasonShiftClick OpenReason = "shift-click"

	// OpenReasonNewWindow is a native new-window request (window.open, target=_blank).
	OpenReasonNewWindow OpenReason = "new-window"
)

// ShellEvent is a fire-and-forget notification for the host UI.
type ShellEvent struct {
	// Type is the event name the UI subscribes to.
	Type ShellEventType

	// Payload is JSON-serializable event data.
	Payload interface{}
}

// TabURLPayload is the payload of tab-loaded and tab-navigated.
type TabURLPayload struct {
	TabID string `json:"tabId"`
	URL   string `json:"url"`
}

// OpenRequestPayload is the payload of tab-open-request.
type OpenRequestPayload struct {
	TabID  string     `json:"tabId"`
	URL    string     `json:"url"`
	Reason OpenReason `json:"reason"`
}

// DebugRecord is a single console/error/rejection/render-sample record.
type DebugRecord struct {
	TabID string                 `json:"tabId"`
	Kind  string                 `json:"kind"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// NewTabLoadedEvent creates a tab loaded event.
func NewTabLoadedEvent(tabID, url string) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeTabLoaded,
		Payload: TabURLPayload{TabID: tabID, URL: url},
	}
}

// NewTabNavigatedEvent creates a tab navigated event.
func NewTabNavigatedEvent(tabID, url string) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeTabNavigated,
		Payload: TabURLPayload{TabID: tabID, URL: url},
	}
}

// NewTabOpenRequestEvent creates an open request event.
func NewTabOpenRequestEvent(tabID, url string, reason OpenReason) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeTabOpenRequest,
		Payload: OpenRequestPayload{TabID: tabID, URL: url, Reason: reason},
	}
}

// NewSidecarStatusEvent creates a sidecar status event.
func NewSidecarStatusEvent(status string) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeSidecarStatus,
		Payload: map[string]interface{}{"status": status},
	}
}

// NewSidecarRequestEvent wraps an encoded JSON-RPC request. The bytes are
// passed through untouched so large integers in params keep their precision.
func NewSidecarRequestEvent(request json.RawMessage) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeSidecarRequest,
		Payload: request,
	}
}

// NewSidecarMessageEvent wraps a parsed sidecar message.
func NewSidecarMessageEvent(message interface{}) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeSidecarMessage,
		Payload: message,
	}
}

// NewDebugEvent creates an instrumentation event.
func NewDebugEvent(record DebugRecord) *ShellEvent {
	return &ShellEvent{
		Type:    EventTypeDebug,
		Payload: record,
	}
}

// Emitter delivers events to the host UI.
type Emitter interface {
	Emit(event *ShellEvent)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event *ShellEvent)

// Emit calls f(event).
func (f EmitterFunc) Emit(event *ShellEvent) {
	f(event)
}

// NopEmitter discards every event.
type NopEmitter struct{}

// Emit does nothing.
func (NopEmitter) Emit(*ShellEvent) {}

// ChannelEmitter buffers events on a channel. Emit never blocks: when the
// buffer is full the event is dropped and counted.
type ChannelEmitter struct {
	ch      chan *ShellEvent
	dropped atomic.Uint64
}

// NewChannelEmitter creates an emitter with the given buffer size.
func NewChannelEmitter(buffer int) *ChannelEmitter {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelEmitter{
		ch: make(chan *ShellEvent, buffer),
	}
}

// Emit queues the event or drops it if the buffer is full.
func (e *ChannelEmitter) Emit(event *ShellEvent) {
	if event == nil {
		return
	}
	select {
	case e.ch <- event:
	default:
		e.dropped.Add(1)
	}
}

// Events returns the receive side of the buffer.
func (e *ChannelEmitter) Events() <-chan *ShellEvent {
	return e.ch
}

// Dropped returns how many events were discarded.
func (e *ChannelEmitter) Dropped() uint64 {
	return e.dropped.Load()
}
