package dictation

// Detail strings passed alongside state changes.
const (
	DetailTooShort     = "recording too short"
	DetailNoSpeech     = "no speech detected"
	DetailTranscribing = "transcribing"
	DetailEnhancing    = "enhancing"
	DetailInserting    = "inserting"
)

// Notifier receives orchestrator events. Implementations must not call
// back into the orchestrator. Errors on OnError ended the utterance;
// OnDiagnostic reports degradations (like an enhancement fallback) that
// did not.
type Notifier interface {
	OnState(state State, detail string)
	OnResult(text string)
	OnError(kind ErrorKind, err error)
	OnDiagnostic(kind ErrorKind, err error)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) OnState(State, string)         {}
func (NopNotifier) OnResult(string)               {}
func (NopNotifier) OnError(ErrorKind, error)      {}
func (NopNotifier) OnDiagnostic(ErrorKind, error) {}
