package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/internal/usecase"
	"go-nippo-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func newDictation() domain.DictationUsecase {
	return usecase.NewDictationUsecase(10 * time.Minute)
}

func final(text string) domain.SpeechResult {
	return domain.SpeechResult{
		IsFinal:      true,
		Alternatives: []domain.SpeechAlternative{{Transcript: text}},
	}
}

func interim(text string) domain.SpeechResult {
	return domain.SpeechResult{
		IsFinal:      false,
		Alternatives: []domain.SpeechAlternative{{Transcript: text}},
	}
}

func TestDictationStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Should refuse clients without a recognition engine", func(t *testing.T) {
		uc := newDictation()

		_, err := uc.Start(ctx, "")
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, err.Error(), "Chrome")
	})

	t.Run("Should open sessions with the fixed Japanese locale", func(t *testing.T) {
		uc := newDictation()

		session, err := uc.Start(ctx, "webkitSpeechRecognition")
		assert.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "ja-JP", session.Lang)
		assert.Empty(t, session.Transcript)
	})
}

func TestDictationPushResult(t *testing.T) {
	ctx := context.Background()

	t.Run("Should emit one finalized chunk per event", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		chunk, err := uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{final("会議に参加した")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "会議に参加した", chunk)

		chunk, err = uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 1,
			Results:     []domain.SpeechResult{final("会議に参加した"), final("。")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "。", chunk)

		stopped, err := uc.Stop(ctx, session.ID, "")
		assert.NoError(t, err)
		assert.Equal(t, "会議に参加した。", stopped.Transcript)
	})

	t.Run("Should return an empty chunk for interim-only events", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		chunk, err := uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{interim("会議"), interim("会議に")},
		})
		assert.NoError(t, err)
		assert.Empty(t, chunk)
	})

	t.Run("Should finalize a segment first reported as interim", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		chunk, err := uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{interim("会議")},
		})
		assert.NoError(t, err)
		assert.Empty(t, chunk)

		// The engine re-reports the same index, now final.
		chunk, err = uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{final("会議に参加した")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "会議に参加した", chunk)

		stopped, err := uc.Stop(ctx, session.ID, "")
		assert.NoError(t, err)
		assert.Equal(t, "会議に参加した", stopped.Transcript)
	})

	t.Run("Should hold back finals trailing an interim segment", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		chunk, err := uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{final("会議に参加した"), interim("資料")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "会議に参加した", chunk)

		chunk, err = uc.PushResult(ctx, session.ID, domain.SpeechResultEvent{
			ResultIndex: 1,
			Results:     []domain.SpeechResult{final("会議に参加した"), final("資料を作成した")},
		})
		assert.NoError(t, err)
		assert.Equal(t, "資料を作成した", chunk)

		stopped, _ := uc.Stop(ctx, session.ID, "")
		assert.Equal(t, "会議に参加した資料を作成した", stopped.Transcript)
	})

	t.Run("Should not re-finalize segments on a replayed event", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		event := domain.SpeechResultEvent{
			ResultIndex: 0,
			Results:     []domain.SpeechResult{final("資料を作成した")},
		}
		chunk, err := uc.PushResult(ctx, session.ID, event)
		assert.NoError(t, err)
		assert.Equal(t, "資料を作成した", chunk)

		chunk, err = uc.PushResult(ctx, session.ID, event)
		assert.NoError(t, err)
		assert.Empty(t, chunk)

		stopped, _ := uc.Stop(ctx, session.ID, "")
		assert.Equal(t, "資料を作成した", stopped.Transcript)
	})

	t.Run("Should reject unknown sessions", func(t *testing.T) {
		uc := newDictation()

		_, err := uc.PushResult(ctx, "missing", domain.SpeechResultEvent{})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestDictationStop(t *testing.T) {
	ctx := context.Background()

	t.Run("Should end the session exactly once", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		_, err := uc.Stop(ctx, session.ID, "")
		assert.NoError(t, err)

		_, err = uc.Stop(ctx, session.ID, "")
		assert.Error(t, err)
	})

	t.Run("Should end on engine error without surfacing the reason", func(t *testing.T) {
		uc := newDictation()
		session, _ := uc.Start(ctx, "webkitSpeechRecognition")

		stopped, err := uc.Stop(ctx, session.ID, "no-speech")
		assert.NoError(t, err)
		assert.Equal(t, session.ID, stopped.ID)
	})

	t.Run("Should expire idle sessions", func(t *testing.T) {
		uc := usecase.NewDictationUsecase(time.Nanosecond)
		stale, _ := uc.Start(ctx, "webkitSpeechRecognition")

		time.Sleep(time.Millisecond)
		// Starting a new session sweeps expired ones.
		_, _ = uc.Start(ctx, "webkitSpeechRecognition")

		_, err := uc.Stop(ctx, stale.ID, "")
		assert.Error(t, err)
	})
}
