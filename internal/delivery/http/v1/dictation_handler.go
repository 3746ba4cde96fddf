package v1

import (
	"net/http"

	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type DictationHandler struct {
	dictationUC domain.DictationUsecase
}

func NewDictationHandler(protected *gin.RouterGroup, dictationUC domain.DictationUsecase) {
	handler := &DictationHandler{dictationUC: dictationUC}

	sessions := protected.Group("/dictation/sessions")
	{
		sessions.POST("", handler.Start)
		sessions.POST("/:id/results", handler.PushResult)
		sessions.DELETE("/:id", handler.Stop)
	}
}

type StartDictationRequest struct {
	// Engine is the client's feature-detection result, e.g.
	// "webkitSpeechRecognition". Empty means no engine is available.
	Engine string `json:"engine"`
	Lang   string `json:"lang"`
}

type StopDictationRequest struct {
	// Reason is set when the engine ended the session with an error.
	Reason string `json:"reason"`
}

// Start godoc
// @Summary      Start Dictation Session
// @Description  Open a transcript aggregation session. Fails with a capability notice when the client has no speech recognition engine.
// @Tags         dictation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        session  body      StartDictationRequest  true  "Engine Feature Detection"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /dictation/sessions [post]
func (h *DictationHandler) Start(c *gin.Context) {
	var req StartDictationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	// The recognition locale is fixed; reject anything else explicitly
	// rather than silently transcribing the wrong language.
	if req.Lang != "" && req.Lang != domain.DictationLang {
		c.Error(apperror.BadRequest("Only ja-JP dictation is supported"))
		return
	}

	session, err := h.dictationUC.Start(c.Request.Context(), req.Engine)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Dictation session started", session)
}

// PushResult godoc
// @Summary      Push Recognition Results
// @Description  Fold one engine result event into the session. Returns the finalized chunk the caller should append to the textarea; empty when only interim results arrived.
// @Tags         dictation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id     path      string                    true  "Session ID"
// @Param        event  body      domain.SpeechResultEvent  true  "Result Event"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /dictation/sessions/{id}/results [post]
func (h *DictationHandler) PushResult(c *gin.Context) {
	var event domain.SpeechResultEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	chunk, err := h.dictationUC.PushResult(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Transcript updated", gin.H{
		"transcript_chunk": chunk,
	})
}

// Stop godoc
// @Summary      Stop Dictation Session
// @Description  End a session on user toggle, engine end event, or engine error. Returns the full accumulated transcript.
// @Tags         dictation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true   "Session ID"
// @Param        stop  body      StopDictationRequest   false  "Stop Reason"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /dictation/sessions/{id} [delete]
func (h *DictationHandler) Stop(c *gin.Context) {
	var req StopDictationRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	session, err := h.dictationUC.Stop(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Dictation session ended", session)
}
