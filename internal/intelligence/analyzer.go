package intelligence

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/inbox/internal/llm"
)

// Analysis is the outcome of one intake model round.
type Analysis struct {
	Prompt      string
	Parsed      *ParsedResponse
	Attachments []Attachment
	// ModelErr is set when the completion call failed and Parsed is the
	// fallback note.
	ModelErr error
}

// IntakeAnalyzer turns raw user input into a parsed draft. It never fails:
// OCR, model and parse errors all degrade to less information.
type IntakeAnalyzer interface {
	Analyze(ctx context.Context, in IntakeInput) *Analysis
}

type intakeAnalyzer struct {
	client llm.LLMClient
	ocr    llm.ImageTextExtractor
	logger *slog.Logger
	now    func() time.Time
}

type AnalyzerOption func(*intakeAnalyzer)

func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *intakeAnalyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAnalyzerClock fixes "now" for the date context line.
func WithAnalyzerClock(now func() time.Time) AnalyzerOption {
	return func(a *intakeAnalyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewIntakeAnalyzer creates an IntakeAnalyzer. ocr may be nil, in which case
// images are listed without extracted text.
func NewIntakeAnalyzer(client llm.LLMClient, ocr llm.ImageTextExtractor, opts ...AnalyzerOption) IntakeAnalyzer {
	a := &intakeAnalyzer{
		client: client,
		ocr:    ocr,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *intakeAnalyzer) Analyze(ctx context.Context, in IntakeInput) *Analysis {
	in.Attachments = a.extractAttachmentText(ctx, in.Attachments)
	prompt := NormalizeInput(in, a.now())
	out := &Analysis{Prompt: prompt, Attachments: in.Attachments}

	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskIntake,
		SystemPrompt: intakeSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		a.logger.WarnContext(ctx, "intake model call failed, saving input as note", "error", err)
		out.ModelErr = err
		out.Parsed = FallbackResponse(userContent(in, prompt), err)
		return out
	}

	out.Parsed = ParseResponse(resp.Text)
	if out.Parsed.FallbackCause != nil {
		a.logger.WarnContext(ctx, "intake reply unreadable, saving as note", "error", out.Parsed.FallbackCause)
	}
	return out
}

// extractAttachmentText fills ExtractedText for images that carry bytes
// but no text yet. Failures leave ExtractedText nil.
func (a *intakeAnalyzer) extractAttachmentText(ctx context.Context, attachments []Attachment) []Attachment {
	if len(attachments) == 0 {
		return attachments
	}
	out := make([]Attachment, len(attachments))
	copy(out, attachments)
	if a.ocr == nil {
		return out
	}
	for i := range out {
		att := &out[i]
		if att.Kind != AttachmentImage || att.ExtractedText != nil || len(att.Data) == 0 {
			continue
		}
		text, err := a.ocr.ExtractText(ctx, att.Data, att.MimeType)
		if err != nil {
			a.logger.WarnContext(ctx, "image text extraction failed", "attachment", att.Name, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			att.ExtractedText = &text
		}
	}
	return out
}

// userContent is what the user actually typed or said, for the fallback
// note. The normalized prompt stands in when both are blank.
func userContent(in IntakeInput, prompt string) string {
	var parts []string
	if v := strings.TrimSpace(in.VoiceTranscript); v != "" {
		parts = append(parts, v)
	}
	if t := strings.TrimSpace(in.Text); t != "" {
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return prompt
	}
	return strings.Join(parts, "\n\n")
}
