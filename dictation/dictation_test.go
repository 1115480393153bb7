package dictation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"murmur/audio"
	"murmur/enhance"
	"murmur/insert"
	"murmur/transcriber"
)

// recordingNotifier captures every event in arrival order.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) OnState(s State, detail string) {
	n.add(fmt.Sprintf("state:%s:%s", s, detail))
}

func (n *recordingNotifier) OnResult(text string) {
	n.add("result:" + text)
}

func (n *recordingNotifier) OnError(kind ErrorKind, err error) {
	n.add("error:" + string(kind))
}

func (n *recordingNotifier) OnDiagnostic(kind ErrorKind, err error) {
	n.add("diag:" + string(kind))
}

func (n *recordingNotifier) add(e string) {
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

type fixture struct {
	rec      *audio.FakeRecorder
	tr       *transcriber.Fake
	enh      *enhance.Fake
	ins      *insert.Fake
	notifier *recordingNotifier
	orch     *Orchestrator
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		rec:      &audio.FakeRecorder{PCM: make([]byte, 32000), Elapsed: time.Second},
		tr:       &transcriber.Fake{Text: "hello world"},
		ins:      &insert.Fake{},
		notifier: &recordingNotifier{},
	}
	if opts.Recorder == nil {
		opts.Recorder = f.rec
	} else {
		f.rec = opts.Recorder.(*audio.FakeRecorder)
	}
	if opts.Transcriber == nil {
		opts.Transcriber = f.tr
	} else {
		f.tr = opts.Transcriber.(*transcriber.Fake)
	}
	if opts.Inserter == nil {
		opts.Inserter = f.ins
	} else {
		f.ins = opts.Inserter.(*insert.Fake)
	}
	if opts.Enhancer != nil {
		f.enh = opts.Enhancer.(*enhance.Fake)
	}
	opts.Notifier = f.notifier
	f.orch = New(opts)
	return f
}

func TestHoldFlowHappyPath(t *testing.T) {
	f := newFixture(Options{})

	f.orch.Start(TriggerHold)
	if got := f.orch.State(); got != StateRecording {
		t.Fatalf("state after start = %s", got)
	}
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	if got := f.orch.State(); got != StateIdle {
		t.Errorf("state after processing = %s", got)
	}
	if ins := f.ins.Inserted(); len(ins) != 1 || ins[0] != "hello world" {
		t.Errorf("inserted = %v", ins)
	}
	want := []string{
		"state:recording:hold",
		"state:processing:" + DetailTranscribing,
		"state:processing:" + DetailInserting,
		"result:hello world",
		"state:idle:",
	}
	got := f.notifier.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTooShortRecordingSkipsPipeline(t *testing.T) {
	f := newFixture(Options{
		Recorder:    &audio.FakeRecorder{PCM: make([]byte, 320), Elapsed: 100 * time.Millisecond},
		MinDuration: 500 * time.Millisecond,
	})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	if f.tr.Calls() != 0 {
		t.Errorf("transcriber called %d times on too-short recording", f.tr.Calls())
	}
	if len(f.ins.Inserted()) != 0 {
		t.Errorf("text inserted for too-short recording")
	}
	events := f.notifier.Events()
	last := events[len(events)-1]
	if last != "state:idle:"+DetailTooShort {
		t.Errorf("last event = %q", last)
	}
}

func TestEnhancementAppliedToResult(t *testing.T) {
	f := newFixture(Options{
		Enhancer: &enhance.Fake{Transform: func(s string) string { return strings.ToUpper(s) }},
	})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	if ins := f.ins.Inserted(); len(ins) != 1 || ins[0] != "HELLO WORLD" {
		t.Errorf("inserted = %v, want enhanced text", ins)
	}
}

func TestEnhancementFailureFallsBackToRaw(t *testing.T) {
	f := newFixture(Options{
		Enhancer: &enhance.Fake{Err: fmt.Errorf("%w after 10s", enhance.ErrTimeout)},
	})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	if ins := f.ins.Inserted(); len(ins) != 1 || ins[0] != "hello world" {
		t.Fatalf("inserted = %v, want raw transcript", ins)
	}
	var sawDiag, sawError bool
	for _, e := range f.notifier.Events() {
		if e == "diag:"+string(ErrEnhancementTimeout) {
			sawDiag = true
		}
		if strings.HasPrefix(e, "error:") {
			sawError = true
		}
	}
	if !sawDiag {
		t.Error("no diagnostic for enhancement timeout")
	}
	if sawError {
		t.Error("enhancement failure must not surface as a fatal error")
	}
}

func TestInsertionFailureCarriesText(t *testing.T) {
	f := newFixture(Options{
		Inserter: &insert.Fake{Err: fmt.Errorf("%w: no uinput", insert.ErrFailed)},
	})

	// wrap the notifier to also capture the error value
	var gotErr error
	f.orch.notifier = &errCapture{inner: f.notifier, err: &gotErr}

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	var sawError bool
	for _, e := range f.notifier.Events() {
		if e == "error:"+string(ErrInsertionFailed) {
			sawError = true
		}
	}
	if !sawError {
		t.Fatal("no insertion error reported")
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "hello world") {
		t.Errorf("error %v should carry the lost text", gotErr)
	}
	if f.orch.State() != StateIdle {
		t.Errorf("state = %s after insertion failure", f.orch.State())
	}
}

type errCapture struct {
	inner Notifier
	err   *error
}

func (c *errCapture) OnState(s State, d string)         { c.inner.OnState(s, d) }
func (c *errCapture) OnResult(t string)                 { c.inner.OnResult(t) }
func (c *errCapture) OnDiagnostic(k ErrorKind, e error) { c.inner.OnDiagnostic(k, e) }
func (c *errCapture) OnError(k ErrorKind, e error) {
	*c.err = e
	c.inner.OnError(k, e)
}

func TestDuplicateStartSuppressed(t *testing.T) {
	f := newFixture(Options{})

	f.orch.Start(TriggerHold)
	f.orch.Start(TriggerHold)
	f.orch.Start(TriggerToggle)

	if f.rec.Begins() != 1 {
		t.Errorf("recorder began %d times, want 1", f.rec.Begins())
	}
	f.orch.Stop(TriggerHold)
	f.orch.Wait()
	if len(f.ins.Inserted()) != 1 {
		t.Errorf("inserted %d times, want 1", len(f.ins.Inserted()))
	}
}

func TestStopFromOtherTriggerIgnored(t *testing.T) {
	f := newFixture(Options{})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerToggle) // stray toggle-off must not end the hold session
	if got := f.orch.State(); got != StateRecording {
		t.Fatalf("state = %s after mismatched stop", got)
	}
	f.orch.Stop(TriggerHold)
	f.orch.Wait()
	if len(f.ins.Inserted()) != 1 {
		t.Errorf("inserted %d times", len(f.ins.Inserted()))
	}
}

func TestStopWhileIdleIgnored(t *testing.T) {
	f := newFixture(Options{})
	f.orch.Stop(TriggerToggle)
	if len(f.notifier.Events()) != 0 {
		t.Errorf("events = %v, want none", f.notifier.Events())
	}
}

func TestCaptureBeginFailure(t *testing.T) {
	f := newFixture(Options{
		Recorder: &audio.FakeRecorder{BeginErr: fmt.Errorf("%w: no pulse server", audio.ErrUnavailable)},
	})

	f.orch.Start(TriggerHold)
	if got := f.orch.State(); got != StateIdle {
		t.Errorf("state = %s, want idle", got)
	}
	events := f.notifier.Events()
	if len(events) == 0 || events[0] != "error:"+string(ErrCaptureUnavailable) {
		t.Errorf("events = %v, want capture error first", events)
	}
}

func TestTranscriptionFailureClassification(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{fmt.Errorf("%w: model missing", transcriber.ErrModelUnavailable), ErrModelUnavailable},
		{fmt.Errorf("%w: inference exploded", transcriber.ErrFailed), ErrTranscriptionFailed},
		{errors.New("unclassified"), ErrTranscriptionFailed},
	}
	for _, tt := range tests {
		f := newFixture(Options{Transcriber: &transcriber.Fake{Err: tt.err}})
		f.orch.Start(TriggerHold)
		f.orch.Stop(TriggerHold)
		f.orch.Wait()

		var saw bool
		for _, e := range f.notifier.Events() {
			if e == "error:"+string(tt.want) {
				saw = true
			}
		}
		if !saw {
			t.Errorf("err %v: events %v missing error:%s", tt.err, f.notifier.Events(), tt.want)
		}
		if len(f.ins.Inserted()) != 0 {
			t.Errorf("err %v: text inserted despite failure", tt.err)
		}
	}
}

func TestEmptyTranscriptInsertsNothing(t *testing.T) {
	f := newFixture(Options{Transcriber: &transcriber.Fake{Text: "   "}})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)
	f.orch.Wait()

	if len(f.ins.Inserted()) != 0 {
		t.Errorf("inserted %v for empty transcript", f.ins.Inserted())
	}
	events := f.notifier.Events()
	last := events[len(events)-1]
	if last != "state:idle:"+DetailNoSpeech {
		t.Errorf("last event = %q", last)
	}
}

func TestToggleFlow(t *testing.T) {
	f := newFixture(Options{})

	f.orch.Start(TriggerToggle)
	if got := f.orch.State(); got != StateRecording {
		t.Fatalf("state = %s", got)
	}
	f.orch.Stop(TriggerToggle)
	f.orch.Wait()
	if ins := f.ins.Inserted(); len(ins) != 1 || ins[0] != "hello world" {
		t.Errorf("inserted = %v", ins)
	}
}

func TestShutdownCancelsRecording(t *testing.T) {
	f := newFixture(Options{})

	f.orch.Start(TriggerHold)
	f.orch.Shutdown()

	if !f.rec.Cancelled() {
		t.Error("in-flight capture not cancelled on shutdown")
	}
	if f.tr.Calls() != 0 {
		t.Error("discarded recording was transcribed")
	}

	// no new sessions after shutdown
	f.orch.Start(TriggerHold)
	if f.rec.Begins() != 1 {
		t.Errorf("recorder began %d times after shutdown", f.rec.Begins())
	}
}

func TestShutdownWaitsForProcessing(t *testing.T) {
	release := make(chan struct{})
	enh := &enhance.Fake{Delay: func(ctx context.Context) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	f := newFixture(Options{Enhancer: enh})

	f.orch.Start(TriggerHold)
	f.orch.Stop(TriggerHold)

	done := make(chan struct{})
	go func() {
		f.orch.Shutdown()
		close(done)
	}()

	// Shutdown cancels the orchestrator context, which unblocks the
	// enhancer; the raw transcript still gets inserted.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("Shutdown did not return")
	}
	if ins := f.ins.Inserted(); len(ins) != 1 || ins[0] != "hello world" {
		t.Errorf("inserted = %v, want raw transcript after cancelled enhancement", ins)
	}
}
