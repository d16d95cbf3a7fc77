//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/cwbudde/algo-vhs/bus"
	"github.com/cwbudde/algo-vhs/overlay"
	"github.com/cwbudde/algo-vhs/params"
	"github.com/cwbudde/algo-vhs/platform/jsdom"
	"github.com/cwbudde/algo-vhs/soundfilter"
)

var (
	board      *bus.Bus
	dispatcher *bus.Dispatcher
	coalescer  *bus.Coalescer
	renderer   *overlay.Renderer
	sound      *soundfilter.Manager
	funcs      []js.Func
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	doc := jsdom.NewDocument()
	s := jsdom.NewScheduler()

	renderer = overlay.New(doc, s, overlay.WithLogger(log))
	sound = soundfilter.New(doc, jsdom.NewContextFactory(), s, soundfilter.WithLogger(log))
	initial := params.Defaults()
	initial.Enabled = false
	board = bus.New(initial)
	dispatcher = bus.NewDispatcher(board, renderer, sound, bus.WithLogger(log))
	coalescer = bus.NewCoalescer(board, s, bus.DefaultCoalesceWindow)
	dispatcher.Start()

	api := js.Global().Get("Object").New()

	api.Set("handle", export(func(args []js.Value) any {
		if len(args) < 1 {
			return toJS(bus.Response{Error: "missing message"})
		}
		out, err := dispatcher.HandleJSON([]byte(stringify(args[0])))
		if err != nil {
			return toJS(bus.Response{Error: err.Error()})
		}
		return js.Global().Get("JSON").Call("parse", string(out))
	}))

	api.Set("activate", export(func(args []js.Value) any {
		next := board.Snapshot()
		if len(args) > 0 {
			next = next.Merge(fromJS(args[0]))
		}
		next.Enabled = true
		board.Publish(next)
		return js.Null()
	}))

	api.Set("deactivate", export(func([]js.Value) any {
		next := board.Snapshot()
		next.Enabled = false
		board.Publish(next)
		return js.Null()
	}))

	// update coalesces bursts such as slider drags into one publish.
	api.Set("update", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		coalescer.Set(fromJS(args[0]))
		return js.Null()
	}))

	api.Set("state", export(func([]js.Value) any {
		return toJS(map[string]any{
			"enabled":  renderer.Visible(),
			"sound":    sound.Enabled(),
			"chains":   sound.Chains(),
			"settings": board.Snapshot().Map(),
		})
	}))

	js.Global().Set("VHSEngine", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}

func stringify(v js.Value) string {
	if v.Type() == js.TypeString {
		return v.String()
	}
	return js.Global().Get("JSON").Call("stringify", v).String()
}

// fromJS decodes a plain option object. Malformed input yields no values.
func fromJS(v js.Value) map[string]any {
	values := map[string]any{}
	if v.IsUndefined() || v.IsNull() {
		return values
	}
	if err := json.Unmarshal([]byte(stringify(v)), &values); err != nil {
		return map[string]any{}
	}
	return values
}

func toJS(v any) js.Value {
	raw, err := json.Marshal(v)
	if err != nil {
		return js.Null()
	}
	return js.Global().Get("JSON").Call("parse", string(raw))
}
