package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-vhs/params"
)

// Message types.
const (
	TypeToggle     = "toggle"
	TypeSetOptions = "setOptions"
	TypeGetState   = "getState"
)

// Message is one request from a settings producer.
type Message struct {
	Type    string         `json:"type"`
	Enabled bool           `json:"enabled,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	// Visible defaults to true when absent.
	Visible *bool `json:"visible,omitempty"`
}

// Response answers a Message.
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// State is the getState payload.
type State struct {
	Enabled bool `json:"enabled"`
}

// Overlay is the visual side driven by a Dispatcher.
type Overlay interface {
	Activate(params.Snapshot)
	UpdateParameters(params.Snapshot)
	Deactivate()
	Visible() bool
}

// Sound is the audio side driven by a Dispatcher.
type Sound interface {
	SetEnabled(bool, params.Snapshot)
	SetLevels(params.Snapshot)
	Enabled() bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// Dispatcher applies bus snapshots to one overlay and one sound manager.
// Snapshot.Enabled selects overlay visibility; Snapshot.SoundEnabled selects
// audio processing.
type Dispatcher struct {
	bus     *Bus
	overlay Overlay
	sound   Sound
	log     *slog.Logger
	cancel  func()
}

// NewDispatcher returns a Dispatcher that is idle until Start.
func NewDispatcher(b *Bus, o Overlay, s Sound, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{bus: b, overlay: o, sound: s, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start applies the current snapshot and follows every later publish.
func (d *Dispatcher) Start() {
	if d.cancel != nil {
		return
	}
	d.cancel = d.bus.Subscribe(d.apply)
	d.apply(d.bus.Snapshot())
}

// Stop detaches from the bus. Overlay and sound keep their last state.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Dispatcher) apply(s params.Snapshot) {
	switch {
	case s.Enabled && !d.overlay.Visible():
		d.overlay.Activate(s)
	case !s.Enabled && d.overlay.Visible():
		d.overlay.UpdateParameters(s)
		d.overlay.Deactivate()
	default:
		d.overlay.UpdateParameters(s)
	}

	if s.SoundEnabled != d.sound.Enabled() {
		d.sound.SetEnabled(s.SoundEnabled, s)
	} else {
		d.sound.SetLevels(s)
	}
}

// Handle answers one message. Unknown types are rejected without side
// effects.
func (d *Dispatcher) Handle(msg Message) Response {
	switch msg.Type {
	case TypeToggle:
		s := d.bus.Snapshot()
		s.Enabled = msg.Enabled
		d.bus.Publish(s)
		return Response{OK: true}
	case TypeSetOptions:
		s := d.bus.Snapshot().Merge(msg.Options)
		s.Enabled = msg.Visible == nil || *msg.Visible
		d.bus.Publish(s)
		return Response{OK: true}
	case TypeGetState:
		return Response{OK: true, Data: State{Enabled: d.overlay.Visible()}}
	default:
		d.log.Debug("bus: unknown message", "type", msg.Type)
		return Response{OK: false, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}

// HandleJSON decodes a message, handles it and encodes the response.
func (d *Dispatcher) HandleJSON(payload []byte) ([]byte, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return json.Marshal(d.Handle(msg))
}
