package client

import (
	"context"
	"sync"
	"time"
)

// CaptureState is the face-capture kiosk state machine.
type CaptureState string

const (
	StateWaiting   CaptureState = "waiting"
	StateScanning  CaptureState = "scanning"
	StateMatched   CaptureState = "matched"
	StateUnmatched CaptureState = "unmatched"
)

// FrameSource provides camera frames. Acquire runs once per Start and
// Release once per Stop.
type FrameSource interface {
	Acquire() error
	Frame(ctx context.Context) ([]byte, error)
	Release()
}

// Embedder turns a frame into a face embedding. A nil embedding with a
// nil error means no face was detected in the frame.
type Embedder interface {
	Embed(ctx context.Context, frame []byte) ([]float64, error)
}

// Matcher submits an embedding for identification.
type Matcher interface {
	Match(ctx context.Context, embedding []float64) (bool, error)
}

// OrchestratorConfig parameterises the capture loop.
type OrchestratorConfig struct {
	Source   FrameSource
	Embedder Embedder
	Matcher  Matcher
	Notifier *Notifier

	// SampleInterval is the fixed frame sampling cadence.
	SampleInterval time.Duration
	// Dwell is how long the matched or unmatched display holds.
	Dwell time.Duration
	// Cooldown suppresses frame processing after each submission.
	Cooldown time.Duration
}

// Orchestrator drives the face-capture flow: sample frames while
// scanning, submit one embedding per detection, hold the result for a
// dwell, then return to waiting on a match or keep scanning otherwise.
type Orchestrator struct {
	cfg OrchestratorConfig

	mu         sync.Mutex
	state      CaptureState
	status     string
	seq        int
	lastSubmit time.Time
	cancel     context.CancelFunc
}

// NewOrchestrator builds an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 500 * time.Millisecond
	}
	if cfg.Dwell <= 0 {
		cfg.Dwell = 3 * time.Second
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Second
	}
	return &Orchestrator{cfg: cfg, state: StateWaiting}
}

// State returns the current display state.
func (o *Orchestrator) State() CaptureState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Status returns the human-readable status line, set on failures that
// do not fit the state machine (camera permission denial).
func (o *Orchestrator) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Start acquires the camera and begins the sampling loop. Acquisition
// failure leaves the orchestrator in waiting with a status message and
// no retry.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.cfg.Source.Acquire(); err != nil {
		o.mu.Lock()
		o.status = "camera unavailable"
		o.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.state = StateWaiting
	o.status = ""
	o.mu.Unlock()

	go o.loop(ctx)
	return nil
}

// Stop halts sampling and releases the camera.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	o.cancel = nil
	o.state = StateWaiting
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.cfg.Source.Release()
}

// Begin moves the kiosk from waiting into scanning.
func (o *Orchestrator) Begin() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateWaiting {
		o.state = StateScanning
		o.seq++
	}
}

func (o *Orchestrator) loop(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.SampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.sample(ctx)
		}
	}
}

func (o *Orchestrator) sample(ctx context.Context) {
	o.mu.Lock()
	scanning := o.state == StateScanning
	cooling := time.Since(o.lastSubmit) < o.cfg.Cooldown && !o.lastSubmit.IsZero()
	o.mu.Unlock()
	if !scanning || cooling {
		return
	}

	frame, err := o.cfg.Source.Frame(ctx)
	if err != nil {
		return
	}
	embedding, err := o.cfg.Embedder.Embed(ctx, frame)
	if err != nil || len(embedding) == 0 {
		return
	}

	o.mu.Lock()
	o.lastSubmit = time.Now()
	o.mu.Unlock()

	matched, err := o.cfg.Matcher.Match(ctx, embedding)
	if err != nil {
		if o.cfg.Notifier != nil {
			o.cfg.Notifier.Error("identification service unreachable")
		}
		o.hold(StateUnmatched, StateScanning)
		return
	}
	if matched {
		o.hold(StateMatched, StateWaiting)
		return
	}
	o.hold(StateUnmatched, StateScanning)
}

// hold shows a result state for the dwell, then falls through to next.
// A newer transition invalidates the pending fall-through.
func (o *Orchestrator) hold(result, next CaptureState) {
	o.mu.Lock()
	o.state = result
	o.seq++
	seq := o.seq
	o.mu.Unlock()

	time.AfterFunc(o.cfg.Dwell, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.seq == seq && o.state == result {
			o.state = next
		}
	})
}

// APIMatcher submits embeddings to the backend clock endpoint.
type APIMatcher struct {
	API *API
	// EventType is "in" or "out", per kiosk.
	EventType string
	DeviceID  string
}

// Match posts the embedding and interprets the match outcome. A miss
// is a normal false; only transport or server failures error.
func (m *APIMatcher) Match(ctx context.Context, embedding []float64) (bool, error) {
	body := struct {
		Embedding []float64 `json:"embedding"`
		DeviceID  string    `json:"device_id,omitempty"`
	}{Embedding: embedding, DeviceID: m.DeviceID}

	var outcome struct {
		Success bool `json:"success"`
	}
	if err := m.API.Post(ctx, "/face_recognition/"+m.EventType, body, &outcome); err != nil {
		return false, err
	}
	return outcome.Success, nil
}
