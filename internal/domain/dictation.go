package domain

import (
	"context"
	"time"
)

// DictationLang is the only recognition locale the application supports.
const DictationLang = "ja-JP"

// SpeechAlternative is one candidate transcript for a recognition segment.
type SpeechAlternative struct {
	Transcript string `json:"transcript"`
}

// SpeechResult is one recognition segment. Interim segments may still be
// revised by the engine; only final ones are ever surfaced.
type SpeechResult struct {
	IsFinal      bool                `json:"is_final"`
	Alternatives []SpeechAlternative `json:"alternatives"`
}

// SpeechResultEvent mirrors one result event from the browser engine:
// the full result list plus the index of the first segment that changed
// since the previous event.
type SpeechResultEvent struct {
	ResultIndex int            `json:"result_index"`
	Results     []SpeechResult `json:"results"`
}

// DictationSession is a snapshot of one dictation session's state.
type DictationSession struct {
	ID         string    `json:"id"`
	Lang       string    `json:"lang"`
	Transcript string    `json:"transcript"`
	StartedAt  time.Time `json:"started_at"`
}

type DictationUsecase interface {
	// Start opens a session. engine is the feature-detection result reported
	// by the client; an empty engine means no speech recognition is
	// available and Start fails with a capability notice.
	Start(ctx context.Context, engine string) (*DictationSession, error)
	// PushResult folds one result event into the session and returns the
	// finalized chunk the caller should append. Exactly one chunk per event;
	// the chunk is empty when the event carried only interim segments.
	PushResult(ctx context.Context, id string, event SpeechResultEvent) (string, error)
	// Stop ends a session: explicit user toggle, the engine's end event, or
	// an engine error (reason is logged, not returned to the caller).
	Stop(ctx context.Context, id, reason string) (*DictationSession, error)
}
