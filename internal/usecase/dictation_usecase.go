package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/logger"

	"github.com/google/uuid"
)

// capabilityNotice mirrors the notice the original UI shows when the browser
// has no speech recognition engine.
const capabilityNotice = "お使いのブラウザは音声入力に対応していません。Chrome をお使いください。"

type dictationSession struct {
	id         string
	transcript strings.Builder
	nextIndex  int
	startedAt  time.Time
	lastSeen   time.Time
}

type dictationUsecase struct {
	mu       sync.Mutex
	sessions map[string]*dictationSession
	ttl      time.Duration
}

// NewDictationUsecase creates the transcript aggregator. Sessions live in
// process memory and expire after ttl of inactivity.
func NewDictationUsecase(ttl time.Duration) domain.DictationUsecase {
	return &dictationUsecase{
		sessions: make(map[string]*dictationSession),
		ttl:      ttl,
	}
}

func (u *dictationUsecase) Start(_ context.Context, engine string) (*domain.DictationSession, error) {
	// The client reports its feature-detection result; no engine means the
	// browser cannot dictate at all.
	if engine == "" {
		return nil, apperror.Unprocessable(capabilityNotice)
	}

	now := time.Now()
	s := &dictationSession{
		id:        uuid.NewString(),
		startedAt: now,
		lastSeen:  now,
	}

	u.mu.Lock()
	u.sweepLocked(now)
	u.sessions[s.id] = s
	u.mu.Unlock()

	return snapshot(s), nil
}

// PushResult folds one engine result event into the session. The returned
// chunk holds only segments finalized by this event, in order; interim
// segments never surface. One event in, exactly one chunk out.
func (u *dictationUsecase) PushResult(_ context.Context, id string, event domain.SpeechResultEvent) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s, ok := u.sessions[id]
	if !ok {
		return "", apperror.NotFound("Dictation session not found or expired")
	}

	start := event.ResultIndex
	if start < 0 {
		start = 0
	}
	// Guard against replayed events re-finalizing segments already consumed.
	if start < s.nextIndex {
		start = s.nextIndex
	}

	// Consume only the contiguous run of finalized segments. An index
	// reported interim now is re-reported final by a later event, so the
	// guard must not move past it.
	var chunk strings.Builder
	i := start
	for ; i < len(event.Results); i++ {
		result := event.Results[i]
		if !result.IsFinal {
			break
		}
		if len(result.Alternatives) > 0 {
			chunk.WriteString(result.Alternatives[0].Transcript)
		}
	}

	s.nextIndex = i
	s.lastSeen = time.Now()
	s.transcript.WriteString(chunk.String())

	return chunk.String(), nil
}

func (u *dictationUsecase) Stop(_ context.Context, id, reason string) (*domain.DictationSession, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s, ok := u.sessions[id]
	if !ok {
		return nil, apperror.NotFound("Dictation session not found or expired")
	}
	delete(u.sessions, id)

	if reason != "" {
		// Engine errors end the session but are not surfaced beyond the log.
		logger.Log.Warn("dictation session ended by engine error", "session_id", id, "reason", reason)
	}
	return snapshot(s), nil
}

func (u *dictationUsecase) sweepLocked(now time.Time) {
	for id, s := range u.sessions {
		if now.Sub(s.lastSeen) > u.ttl {
			delete(u.sessions, id)
		}
	}
}

func snapshot(s *dictationSession) *domain.DictationSession {
	return &domain.DictationSession{
		ID:         s.id,
		Lang:       domain.DictationLang,
		Transcript: s.transcript.String(),
		StartedAt:  s.startedAt,
	}
}
