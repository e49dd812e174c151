package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/inbox/internal/intelligence"
)

// MaxAttachmentBytes bounds a single uploaded file.
const MaxAttachmentBytes = 10 << 20

type attachmentRequest struct {
	Name          string  `json:"name"`
	MimeType      string  `json:"mimeType"`
	SizeBytes     int64   `json:"sizeBytes"`
	ExtractedText *string `json:"extractedText"`
	Data          []byte  `json:"data"`
}

type submitRequest struct {
	Text            string              `json:"text"`
	VoiceTranscript string              `json:"voiceTranscript"`
	Attachments     []attachmentRequest `json:"attachments"`
}

type answersRequest struct {
	Answers []intelligence.Answer `json:"answers" binding:"required"`
}

type alternativeRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// Submit handles POST /api/intake as JSON or multipart/form-data.
func (h *Handler) Submit(c *gin.Context) {
	var (
		in  intelligence.IntakeInput
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in, err = h.multipartInput(c)
	} else {
		in, err = jsonInput(c)
	}
	if err != nil {
		return
	}

	env, err := h.intake.Submit(c.Request.Context(), userID(c), in)
	if err != nil {
		failWith(c, err)
		return
	}
	created(c, env)
}

func jsonInput(c *gin.Context) (intelligence.IntakeInput, error) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid intake body: "+err.Error())
		return intelligence.IntakeInput{}, err
	}
	in := intelligence.IntakeInput{Text: req.Text, VoiceTranscript: req.VoiceTranscript}
	for _, a := range req.Attachments {
		if len(a.Data) > MaxAttachmentBytes {
			err := fmt.Errorf("attachment %q exceeds %d bytes", a.Name, MaxAttachmentBytes)
			fail(c, http.StatusRequestEntityTooLarge, &APIError{Code: ErrorAttachmentTooLarge, Message: err.Error()})
			return intelligence.IntakeInput{}, err
		}
		in.Attachments = append(in.Attachments, toAttachment(a))
	}
	return in, nil
}

func toAttachment(a attachmentRequest) intelligence.Attachment {
	mimeType := a.MimeType
	if mimeType == "" && len(a.Data) > 0 {
		mimeType = mimetype.Detect(a.Data).String()
	}
	size := a.SizeBytes
	if size == 0 {
		size = int64(len(a.Data))
	}
	return intelligence.Attachment{
		Name:          a.Name,
		Kind:          intelligence.KindForMIME(mimeType),
		MimeType:      mimeType,
		SizeBytes:     size,
		ExtractedText: a.ExtractedText,
		Data:          a.Data,
	}
}

// multipartInput reads the text fields and every file under "attachments".
// Content is sniffed; the client-declared type is ignored.
func (h *Handler) multipartInput(c *gin.Context) (intelligence.IntakeInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "invalid multipart body: "+err.Error())
		return intelligence.IntakeInput{}, err
	}
	in := intelligence.IntakeInput{
		Text:            c.PostForm("text"),
		VoiceTranscript: c.PostForm("voiceTranscript"),
	}
	for _, fh := range form.File["attachments"] {
		a, err := readUpload(fh)
		if err != nil {
			if fh.Size > MaxAttachmentBytes {
				fail(c, http.StatusRequestEntityTooLarge, &APIError{Code: ErrorAttachmentTooLarge, Message: err.Error()})
			} else {
				fail(c, http.StatusBadRequest, &APIError{Code: ErrorAttachmentUnreadable, Message: err.Error()})
			}
			return intelligence.IntakeInput{}, err
		}
		in.Attachments = append(in.Attachments, a)
	}
	return in, nil
}

func readUpload(fh *multipart.FileHeader) (intelligence.Attachment, error) {
	if fh.Size > MaxAttachmentBytes {
		return intelligence.Attachment{}, fmt.Errorf("attachment %q exceeds %d bytes", fh.Filename, MaxAttachmentBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return intelligence.Attachment{}, fmt.Errorf("opening %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return intelligence.Attachment{}, fmt.Errorf("reading %q: %w", fh.Filename, err)
	}
	mimeType := mimetype.Detect(data).String()
	return intelligence.Attachment{
		Name:      fh.Filename,
		Kind:      intelligence.KindForMIME(mimeType),
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Data:      data,
	}, nil
}

// AnswerClarification handles POST /api/intake/sessions/:id/answers.
func (h *Handler) AnswerClarification(c *gin.Context) {
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid answers body: "+err.Error())
		return
	}
	env, err := h.intake.AnswerClarification(c.Request.Context(), userID(c), c.Param("id"), req.Answers)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, env)
}

// ConfirmAlternative handles POST /api/intake/sessions/:id/alternative.
func (h *Handler) ConfirmAlternative(c *gin.Context) {
	var req alternativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid alternative body: "+err.Error())
		return
	}
	env, err := h.intake.ConfirmAlternative(c.Request.Context(), userID(c), c.Param("id"), *req.Accepted)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, env)
}

func (h *Handler) GetSession(c *gin.Context) {
	env, err := h.intake.GetSession(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, env)
}
