// Package dictation runs the capture-transcribe-enhance-insert pipeline.
// The orchestrator is a small state machine driven by shortcut signals:
// idle, recording, processing. Processing happens on its own goroutine so
// the caller's signal loop never blocks on a slow model or endpoint.
package dictation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/enhance"
	"murmur/insert"
	"murmur/log"
	"murmur/transcriber"
)

const defaultMinDuration = 500 * time.Millisecond

type Options struct {
	Recorder    audio.Recorder
	Transcriber transcriber.Transcriber
	Enhancer    enhance.Enhancer // nil disables enhancement
	Inserter    insert.Inserter
	Notifier    Notifier // nil for no notifications
	MinDuration time.Duration
}

type Orchestrator struct {
	recorder    audio.Recorder
	transcriber transcriber.Transcriber
	enhancer    enhance.Enhancer
	inserter    insert.Inserter
	notifier    Notifier
	minDuration time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	sess     *session
	procDone chan struct{}
	closed   bool
}

func New(o Options) *Orchestrator {
	if o.Notifier == nil {
		o.Notifier = NopNotifier{}
	}
	if o.MinDuration <= 0 {
		o.MinDuration = defaultMinDuration
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		recorder:    o.Recorder,
		transcriber: o.Transcriber,
		enhancer:    o.Enhancer,
		inserter:    o.Inserter,
		notifier:    o.Notifier,
		minDuration: o.MinDuration,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateIdle,
	}
}

func (d *Orchestrator) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start begins a recording session for trigger. Signals arriving while a
// session is already recording or processing are dropped.
func (d *Orchestrator) Start(trigger Trigger) {
	d.mu.Lock()
	if d.closed || d.state != StateIdle {
		d.mu.Unlock()
		return
	}
	capture, err := d.recorder.Begin()
	if err != nil {
		d.mu.Unlock()
		d.notifier.OnError(ErrCaptureUnavailable, err)
		d.notifier.OnState(StateIdle, "")
		return
	}
	d.sess = &session{trigger: trigger, capture: capture, started: time.Now()}
	d.state = StateRecording
	d.mu.Unlock()

	log.StateChange(string(StateRecording), string(trigger))
	d.notifier.OnState(StateRecording, string(trigger))
}

// Stop ends the recording session owned by trigger and kicks off
// processing. A stop from the other trigger, or with no session active,
// is ignored.
func (d *Orchestrator) Stop(trigger Trigger) {
	d.mu.Lock()
	if d.state != StateRecording || d.sess == nil || d.sess.trigger != trigger {
		d.mu.Unlock()
		return
	}
	pcm, recorded := d.sess.capture.End()
	d.sess = nil

	if recorded < d.minDuration {
		d.state = StateIdle
		d.mu.Unlock()
		log.StateChange(string(StateIdle), DetailTooShort)
		d.notifier.OnState(StateIdle, DetailTooShort)
		return
	}

	d.state = StateProcessing
	done := make(chan struct{})
	d.procDone = done
	d.mu.Unlock()

	log.StateChange(string(StateProcessing), DetailTranscribing)
	d.notifier.OnState(StateProcessing, DetailTranscribing)
	go d.process(pcm, recorded, done)
}

func (d *Orchestrator) process(pcm []byte, recorded time.Duration, done chan struct{}) {
	defer close(done)

	start := time.Now()
	raw, err := d.transcriber.Transcribe(d.ctx, pcm)
	transcribeDur := time.Since(start)
	if err != nil {
		d.finishError(classifyTranscription(err), err)
		return
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.finishIdle(DetailNoSpeech)
		return
	}

	text := raw
	var enhanceDur time.Duration
	if d.enhancer != nil {
		d.notifier.OnState(StateProcessing, DetailEnhancing)
		start = time.Now()
		improved, err := d.enhancer.Enhance(d.ctx, raw)
		enhanceDur = time.Since(start)
		if err != nil {
			// fall back to the raw transcript; the utterance continues
			kind := classifyEnhancement(err)
			log.Diagnostic(string(kind), err)
			d.notifier.OnDiagnostic(kind, err)
		} else {
			text = improved
		}
	}

	d.notifier.OnState(StateProcessing, DetailInserting)
	start = time.Now()
	if err := d.inserter.Insert(text); err != nil {
		// carry the text so the user can still recover it
		d.finishError(ErrInsertionFailed, fmt.Errorf("%w (text: %q)", err, text))
		return
	}
	insertDur := time.Since(start)

	log.Utterance(recorded, transcribeDur, enhanceDur, insertDur, len(text))
	log.TranscriptText(text)
	d.notifier.OnResult(text)
	d.finishIdle("")
}

func (d *Orchestrator) finishIdle(detail string) {
	d.mu.Lock()
	d.state = StateIdle
	d.mu.Unlock()
	log.StateChange(string(StateIdle), detail)
	d.notifier.OnState(StateIdle, detail)
}

func (d *Orchestrator) finishError(kind ErrorKind, err error) {
	d.mu.Lock()
	d.state = StateIdle
	d.mu.Unlock()
	log.Failure(string(kind), err)
	d.notifier.OnError(kind, err)
	d.notifier.OnState(StateIdle, "")
}

// Wait blocks until the most recent processing run finishes. Used by
// tests and shutdown; a call with nothing in flight returns immediately.
func (d *Orchestrator) Wait() {
	d.mu.Lock()
	done := d.procDone
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Shutdown discards any in-flight recording, cancels processing, and
// waits for the pipeline goroutine to exit. The orchestrator accepts no
// new sessions afterwards.
func (d *Orchestrator) Shutdown() {
	d.mu.Lock()
	d.closed = true
	if d.state == StateRecording && d.sess != nil {
		d.sess.capture.Cancel()
		d.sess = nil
		d.state = StateIdle
	}
	done := d.procDone
	d.mu.Unlock()

	d.cancel()
	if done != nil {
		<-done
	}
}
