package events

// Event type constants for kelindar/event.
const (
	TypeGenerationStarted uint32 = iota + 1
	TypeGenerationProgress
	TypeGenerationDone
	TypeEncoderProbed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// GenerationStartedEvent is published when a render job begins.
type GenerationStartedEvent struct {
	Output       string `json:"output"`
	Pattern      string `json:"pattern"`
	Overlay      string `json:"overlay"`
	TotalFrames  int    `json:"total_frames"`
	EncoderLabel string `json:"encoder_label"`
	Timestamp    string `json:"timestamp"`
}

// Type returns the event type identifier for GenerationStartedEvent.
func (e GenerationStartedEvent) Type() uint32 { return TypeGenerationStarted }

// GenerationProgressEvent carries periodic progress updates.
type GenerationProgressEvent struct {
	Output   string  `json:"output"`
	Fraction float64 `json:"fraction"`
	Status   string  `json:"status"`
}

// Type returns the event type identifier for GenerationProgressEvent.
func (e GenerationProgressEvent) Type() uint32 { return TypeGenerationProgress }

// GenerationDoneEvent is the terminal event for a render job: completed,
// failed, or cancelled.
type GenerationDoneEvent struct {
	Output    string `json:"output"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Cancelled bool   `json:"cancelled"`
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for GenerationDoneEvent.
func (e GenerationDoneEvent) Type() uint32 { return TypeGenerationDone }

// EncoderProbedEvent is published after a capability probe resolves.
type EncoderProbedEvent struct {
	Encoder   string `json:"encoder"`
	Label     string `json:"label"`
	HWAccel   bool   `json:"hwaccel"`
	FromCache bool   `json:"from_cache"`
}

// Type returns the event type identifier for EncoderProbedEvent.
func (e EncoderProbedEvent) Type() uint32 { return TypeEncoderProbed }
