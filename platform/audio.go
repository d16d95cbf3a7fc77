package platform

// AudioState mirrors the processing context's run state.
type AudioState string

const (
	StateSuspended AudioState = "suspended"
	StateRunning   AudioState = "running"
	StateClosed    AudioState = "closed"
)

// ContextFactory creates the audio processing context.
type ContextFactory func() (AudioContext, error)

// AudioNode is a vertex of the processing graph.
type AudioNode interface {
	Connect(dst AudioNode) error
}

// GainNode scales its input.
type GainNode interface {
	AudioNode
	SetGain(v float64)
	Gain() float64
}

// BiquadNode is a second-order filter.
type BiquadNode interface {
	AudioNode
	SetLowpass(freq, q float64)
}

// Oversample factors accepted by WaveShaperNode.SetOversample.
const (
	OversampleNone = 1
	Oversample2x   = 2
)

// WaveShaperNode maps samples through a transfer curve. A nil curve passes
// input unchanged.
type WaveShaperNode interface {
	AudioNode
	SetCurve(curve []float32)
	SetOversample(factor int)
}

// DelayNode is a variable delay line.
type DelayNode interface {
	AudioNode
	SetDelayTime(seconds float64)
	DelayTime() float64
	// SetTargetAtTime moves the delay time exponentially toward target,
	// starting at context time start with time constant tau.
	SetTargetAtTime(target, start, tau float64)
}

// AudioBuffer holds mono sample data owned by a context.
type AudioBuffer interface {
	Len() int
	SampleRate() float64
}

// BufferSourceNode plays an AudioBuffer.
type BufferSourceNode interface {
	AudioNode
	SetLoop(loop bool)
	Start() error
}

// AudioContext is the processing context shared by every effect chain.
type AudioContext interface {
	SampleRate() float64
	CurrentTime() float64
	State() AudioState
	// Resume asks the context to run. It may stay suspended until the next
	// user gesture.
	Resume() error
	Destination() AudioNode
	CreateMediaElementSource(el MediaElement) (AudioNode, error)
	CreateGain() (GainNode, error)
	CreateBiquadFilter() (BiquadNode, error)
	CreateWaveShaper() (WaveShaperNode, error)
	CreateDelay(maxSeconds float64) (DelayNode, error)
	CreateBuffer(samples []float32, sampleRate float64) (AudioBuffer, error)
	CreateBufferSource(buf AudioBuffer) (BufferSourceNode, error)
}
