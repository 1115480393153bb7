package dictation

import (
	"time"

	"murmur/audio"
)

// State is the orchestrator's externally visible phase.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
)

// Trigger identifies which shortcut owns a recording session. A session
// started by one trigger can only be stopped by the same trigger.
type Trigger string

const (
	TriggerHold   Trigger = "hold"
	TriggerToggle Trigger = "toggle"
)

// session is the in-flight recording. Owned exclusively by the
// orchestrator under its mutex; never escapes.
type session struct {
	trigger Trigger
	capture audio.Capture
	started time.Time
}
