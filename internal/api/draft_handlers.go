package api

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/service"
)

// decisionRequest is the body of POST /api/drafts/:id/decision. Intent names
// the variant of ModifiedDraft and defaults to the stored draft's intent.
type decisionRequest struct {
	Action        string          `json:"action" binding:"required"`
	Intent        string          `json:"intent"`
	ModifiedDraft json.RawMessage `json:"modifiedDraft"`
}

func (h *Handler) ListPendingDrafts(c *gin.Context) {
	envs, err := h.drafts.ListPending(c.Request.Context(), userID(c))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, envs)
}

func (h *Handler) GetDraft(c *gin.Context) {
	env, err := h.drafts.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, env)
}

// DecideDraft handles approve, modify and reject.
func (h *Handler) DecideDraft(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid decision body: "+err.Error())
		return
	}

	draftID := c.Param("id")
	decision := service.DecisionRequest{DraftID: draftID, Action: domain.DecisionAction(req.Action)}

	if raw := bytes.TrimSpace(req.ModifiedDraft); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		intent, ok := domain.ParseIntent(req.Intent)
		if !ok {
			if req.Intent != "" {
				badRequest(c, "unknown intent "+req.Intent)
				return
			}
			current, err := h.drafts.Get(c.Request.Context(), userID(c), draftID)
			if err != nil {
				failWith(c, err)
				return
			}
			intent = current.IntentDetected
		}
		draft, err := domain.DecodeDraft(intent, string(raw))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		decision.ModifiedDraft = draft
	}

	res, err := h.drafts.Decide(c.Request.Context(), userID(c), decision)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, res)
}

// RunGC handles POST /api/maintenance/gc.
func (h *Handler) RunGC(c *gin.Context) {
	res, err := h.drafts.GC(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, res)
}
