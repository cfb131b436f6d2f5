package intake

import (
	"context"
	"log/slog"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// pipelineState carries one voice note through the collection steps.
type pipelineState struct {
	fileURL string
	field   domain.Field

	filename   string
	transcript string
	polished   string
}

type pipelineStep struct {
	name string
	run  func(ctx context.Context, st *pipelineState) error
}

// collectField runs the whole per-field pipeline (download, transcribe,
// rewrite) sequentially. Any step failure aborts the transition: nothing is
// committed until the final text exists.
func (s *Service) collectField(ctx context.Context, log *slog.Logger, fileURL string, field domain.Field) (string, error) {
	st := &pipelineState{fileURL: fileURL, field: field}

	steps := []pipelineStep{
		{name: "download", run: s.stepDownloadAndTranscribe},
		{name: "rewrite", run: s.stepRewrite},
	}

	for _, step := range steps {
		log.Info("pipeline step start", "step", step.name, "field", field.ID)

		if err := step.run(ctx, st); err != nil {
			log.Error("pipeline step failed", "step", step.name, "field", field.ID, "error", err)
			return "", domain.Collaborator(step.name, err)
		}

		log.Info("pipeline step done", "step", step.name, "field", field.ID)
	}

	return st.polished, nil
}

// stepDownloadAndTranscribe streams the attachment straight into the
// transcriber, so the audio never has to touch the local disk.
func (s *Service) stepDownloadAndTranscribe(ctx context.Context, st *pipelineState) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	audio, filename, err := s.fetcher.FetchFile(callCtx, st.fileURL)
	if err != nil {
		return err
	}
	defer audio.Close()
	st.filename = filename

	text, err := s.transcriber.Transcribe(callCtx, audio, filename)
	if err != nil {
		return err
	}
	st.transcript = text
	return nil
}

func (s *Service) stepRewrite(ctx context.Context, st *pipelineState) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	text, err := s.rewriter.Rewrite(callCtx, st.field.ID, st.field.Label, st.transcript)
	if err != nil {
		return err
	}
	st.polished = text
	return nil
}
