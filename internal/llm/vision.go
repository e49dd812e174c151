package llm

import (
	"context"
	"encoding/base64"
	"strings"
)

// ImageTextExtractor turns image bytes into the text visible in the image.
// An empty string with a nil error means the image holds no readable text.
type ImageTextExtractor interface {
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
}

const ocrPrompt = `Transcribe all text visible in this image exactly as written.
Preserve line breaks. Output only the transcribed text. If the image contains no text, output nothing.`

// NewOllamaVisionClient creates an ImageTextExtractor backed by an Ollama
// multimodal model (cfg.VisionModel).
func NewOllamaVisionClient(cfg LLMConfig, observer Observer) ImageTextExtractor {
	return &ollamaVision{client: newOllamaClient(cfg, observer)}
}

type ollamaVision struct {
	client *ollamaClient
}

func (v *ollamaVision) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	taskCfg := v.client.cfg.Tasks[TaskOCR]
	body := ollamaRequest{
		Model:  v.client.cfg.VisionModel,
		Prompt: ocrPrompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
		Stream: false,
		Options: ollamaOptions{
			Temperature: taskCfg.Temperature,
			NumPredict:  taskCfg.MaxTokens,
		},
	}

	resp, err := v.client.call(ctx, TaskOCR, body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
