package intelligence

import (
	"fmt"
	"strings"
	"time"
)

// AttachmentKind classifies an uploaded file.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentVoice AttachmentKind = "voice"
	AttachmentFile  AttachmentKind = "file"
)

// KindForMIME buckets a detected MIME type.
func KindForMIME(mimeType string) AttachmentKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return AttachmentImage
	case strings.HasPrefix(mimeType, "audio/"):
		return AttachmentVoice
	default:
		return AttachmentFile
	}
}

// Attachment summarizes an uploaded file. Data is only carried in memory so
// image text can be extracted before normalization.
type Attachment struct {
	Name          string         `json:"name"`
	Kind          AttachmentKind `json:"kind"`
	MimeType      string         `json:"mimeType"`
	SizeBytes     int64          `json:"sizeBytes"`
	ExtractedText *string        `json:"extractedText"`
	Data          []byte         `json:"-"`
}

// IntakeInput is everything the user submitted in one request.
type IntakeInput struct {
	Text            string
	VoiceTranscript string
	Attachments     []Attachment
}

const (
	emptyInputMarker = "[The user submitted no text, voice or attachments.]"
	currentDateForm  = "Monday, January 2, 2006"
)

// NormalizeInput merges every input channel into one prompt. Blocks appear
// in a fixed order (voice, text, attachments) and the prompt always ends
// with the current date so relative dates can be resolved.
func NormalizeInput(in IntakeInput, now time.Time) string {
	var blocks []string

	if voice := strings.TrimSpace(in.VoiceTranscript); voice != "" {
		blocks = append(blocks, "Voice transcript:\n"+voice)
	}
	if text := strings.TrimSpace(in.Text); text != "" {
		blocks = append(blocks, "Text:\n"+text)
	}
	if len(in.Attachments) > 0 {
		var b strings.Builder
		b.WriteString("Attachments:")
		for _, a := range in.Attachments {
			fmt.Fprintf(&b, "\n- %s, %s", a.Kind, a.Name)
			if a.ExtractedText != nil {
				if extracted := strings.TrimSpace(*a.ExtractedText); extracted != "" {
					b.WriteString("\n    Extracted content: ")
					b.WriteString(strings.Join(strings.Fields(extracted), " "))
				}
			}
		}
		blocks = append(blocks, b.String())
	}
	if len(blocks) == 0 {
		blocks = append(blocks, emptyInputMarker)
	}

	blocks = append(blocks, fmt.Sprintf("Current date: %s (%s)", now.Format(currentDateForm), now.Format("2006-01-02")))
	return strings.Join(blocks, "\n\n")
}
