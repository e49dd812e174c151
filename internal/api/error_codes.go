package api

// Error codes carried in APIError.Code.
const (
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorUnauthorized  = "UNAUTHORIZED"
	ErrorNotFound      = "NOT_FOUND"
	ErrorConflict      = "CONFLICT"
	ErrorGone          = "GONE"
	ErrorValidation    = "VALIDATION_FAILED"
	ErrorInternalError = "INTERNAL_ERROR"

	ErrorDraftNotFound        = "DRAFT_NOT_FOUND"
	ErrorDraftExpired         = "DRAFT_EXPIRED"
	ErrorDraftProcessed       = "DRAFT_ALREADY_PROCESSED"
	ErrorModifyRequiresDraft  = "MODIFY_REQUIRES_DRAFT"
	ErrorSessionNotFound      = "SESSION_NOT_FOUND"
	ErrorSessionExpired       = "SESSION_EXPIRED"
	ErrorSessionConflict      = "SESSION_CONFLICT"
	ErrorAlternativeDecided   = "ALTERNATIVE_ALREADY_DECIDED"
	ErrorNoAlternative        = "NO_ALTERNATIVE"
	ErrorUnknownQuestion      = "UNKNOWN_QUESTION"
	ErrorInvalidAnswer        = "INVALID_ANSWER"
	ErrorAttachmentTooLarge   = "ATTACHMENT_TOO_LARGE"
	ErrorAttachmentUnreadable = "ATTACHMENT_UNREADABLE"
)
