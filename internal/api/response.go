package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/service"
)

// APIResponse wraps every JSON reply.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the error half of APIResponse. Status is set on conflicts
// caused by a draft that already left PENDING_APPROVAL.
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  *domain.DraftStatus `json:"status,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, &APIResponse{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, &APIResponse{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

func fail(c *gin.Context, status int, apiErr *APIError) {
	c.AbortWithStatusJSON(status, &APIResponse{Success: false, Error: apiErr, Timestamp: time.Now().UTC()})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, &APIError{Code: ErrorBadRequest, Message: message})
}

// failWith maps a service error onto its HTTP status and error code.
func failWith(c *gin.Context, err error) {
	status, apiErr := classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, apiErr)
}

func classify(err error) (int, *APIError) {
	var processed *service.AlreadyProcessedError
	if errors.As(err, &processed) {
		st := processed.Status
		return http.StatusConflict, &APIError{Code: ErrorDraftProcessed, Message: err.Error(), Status: &st}
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, &APIError{Code: m.code, Message: m.err.Error()}
		}
	}
	return http.StatusInternalServerError, &APIError{Code: ErrorInternalError, Message: "internal error"}
}

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrDraftNotFound, http.StatusNotFound, ErrorDraftNotFound},
	{intelligence.ErrSessionNotFound, http.StatusNotFound, ErrorSessionNotFound},
	{service.ErrDraftExpired, http.StatusGone, ErrorDraftExpired},
	{intelligence.ErrSessionExpired, http.StatusGone, ErrorSessionExpired},
	{intelligence.ErrAlternativeDecided, http.StatusConflict, ErrorAlternativeDecided},
	{intelligence.ErrSessionVersionConflict, http.StatusConflict, ErrorSessionConflict},
	{service.ErrModifyRequiresDraft, http.StatusUnprocessableEntity, ErrorModifyRequiresDraft},
	{intelligence.ErrNoAlternative, http.StatusUnprocessableEntity, ErrorNoAlternative},
	{intelligence.ErrUnknownQuestion, http.StatusUnprocessableEntity, ErrorUnknownQuestion},
	{intelligence.ErrInvalidAnswer, http.StatusUnprocessableEntity, ErrorInvalidAnswer},
	{service.ErrInvalidRequest, http.StatusUnprocessableEntity, ErrorValidation},
}
