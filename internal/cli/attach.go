package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alexanderramin/inbox/internal/intelligence"
)

// maxAttachmentBytes mirrors the HTTP upload limit.
const maxAttachmentBytes = 10 << 20

// readAttachment loads a file and classifies it by sniffed content type.
func readAttachment(path string) (intelligence.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return intelligence.Attachment{}, fmt.Errorf("attachment %s: %w", path, err)
	}
	if info.Size() > maxAttachmentBytes {
		return intelligence.Attachment{}, fmt.Errorf("attachment %s is larger than %d MB", path, maxAttachmentBytes>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return intelligence.Attachment{}, fmt.Errorf("attachment %s: %w", path, err)
	}
	mime := mimetype.Detect(data).String()
	return intelligence.Attachment{
		Name:      filepath.Base(path),
		Kind:      intelligence.KindForMIME(mime),
		MimeType:  mime,
		SizeBytes: int64(len(data)),
		Data:      data,
	}, nil
}
