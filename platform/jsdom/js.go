//go:build js && wasm

package jsdom

import (
	"encoding/binary"
	"fmt"
	"math"
	"syscall/js"
)

// valuer is implemented by every wrapper in this package.
type valuer interface {
	jsValue() js.Value
}

// try runs fn and converts a thrown JavaScript exception into an error.
func try(fn func() js.Value) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(), nil
}

// oneShot wraps fn in a js.Func that releases itself after the first call.
func oneShot(fn func()) js.Func {
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		f.Release()
		fn()
		return nil
	})
	return f
}

// listener wraps fn for repeated calls; the caller releases it.
func listener(fn func()) js.Func {
	return js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
}

// float32Array copies s into a new Float32Array.
func float32Array(s []float32) js.Value {
	raw := make([]byte, 4*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	u8 := js.Global().Get("Uint8Array").New(len(raw))
	js.CopyBytesToJS(u8, raw)
	return js.Global().Get("Float32Array").New(u8.Get("buffer"))
}

func passive() js.Value {
	opts := js.Global().Get("Object").New()
	opts.Set("passive", true)
	return opts
}
