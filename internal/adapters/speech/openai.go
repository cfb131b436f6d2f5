// Package speech transcribes voice notes. Reports are dictated in Arabic, so
// the language is fixed rather than auto-detected.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const Language = "ar"

type OpenAITranscriber struct {
	client openaigo.Client
	model  string
}

// NewOpenAITranscriber builds a Whisper transcriber. baseURL empty means the
// public OpenAI endpoint.
func NewOpenAITranscriber(apiKey, baseURL, model string) *OpenAITranscriber {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	if model == "" {
		model = string(openaigo.AudioModelWhisper1)
	}

	return &OpenAITranscriber{
		client: openaigo.NewClient(opts...),
		model:  model,
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "voice.mp4"
	}

	res, err := t.client.Audio.Transcriptions.New(ctx, openaigo.AudioTranscriptionNewParams{
		Model:    openaigo.AudioModel(t.model),
		File:     openaigo.File(audio, filename, ""),
		Language: openaigo.String(Language),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", fmt.Errorf("whisper returned empty transcript")
	}
	return text, nil
}
