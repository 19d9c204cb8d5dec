// Package renamer executes rename jobs: build the content digest, ask the
// naming model for a decision, and relocate the file.
package renamer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/media-namer/backend/internal/db"
	"github.com/media-namer/backend/internal/db/models"
	"github.com/media-namer/backend/internal/digest"
	"github.com/media-namer/backend/internal/job"
	"github.com/media-namer/backend/internal/media"
	"github.com/media-namer/backend/internal/naming"
)

// Service wires the digest pipeline and naming client together and handles
// rename jobs from the queue.
type Service struct {
	pipeline   *digest.Pipeline
	namer      naming.Namer
	database   *db.Database
	mediaPath  string
	outputPath string
}

func NewService(pipeline *digest.Pipeline, namer naming.Namer, database *db.Database, mediaPath, outputPath string) *Service {
	return &Service{
		pipeline:   pipeline,
		namer:      namer,
		database:   database,
		mediaPath:  mediaPath,
		outputPath: outputPath,
	}
}

// Preview runs the pipeline and naming decision without touching the file.
func (s *Service) Preview(ctx context.Context, relPath, userPrompt string, maxFrames int) (*digest.Digest, *naming.Decision, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return nil, nil, err
	}

	d, err := s.pipeline.Run(ctx, fullPath, userPrompt, maxFrames, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("digest %s: %w", relPath, err)
	}

	decision, err := s.namer.ChooseName(ctx, *d)
	if err != nil {
		return d, nil, fmt.Errorf("naming %s: %w", relPath, err)
	}
	return d, decision, nil
}

// HandleJob processes one rename job end to end.
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.RenameParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	fullPath, err := s.resolve(j.FilePath)
	if err != nil {
		return err
	}

	log.Printf("[renamer] starting rename: file=%s max_frames=%d", j.FilePath, params.MaxFrames)

	d, err := s.pipeline.Run(ctx, fullPath, params.UserPrompt, params.MaxFrames, updateProgress)
	if err != nil {
		return fmt.Errorf("digest %s: %w", j.FilePath, err)
	}

	decision, err := s.namer.ChooseName(ctx, *d)
	if err != nil {
		return fmt.Errorf("naming %s: %w", j.FilePath, err)
	}
	updateProgress(0.95)

	outputDir := params.OutputDir
	if outputDir == "" {
		outputDir = s.outputPath
	}
	dest, moved, err := media.Place(fullPath, outputDir, decision.Filename)
	if err != nil {
		return fmt.Errorf("place %s: %w", j.FilePath, err)
	}

	record := &models.RenameRecord{
		OriginalPath: fullPath,
		NewPath:      dest,
		Reason:       decision.Reason,
		Tags:         decision.Tags,
		Moved:        moved,
	}
	if err := s.database.RecordRename(record); err != nil {
		log.Printf("[renamer] failed to record rename history: %v", err)
	}

	result := job.RenameResult{
		NewName:  filepath.Base(dest),
		DestPath: dest,
		Reason:   decision.Reason,
		Tags:     decision.Tags,
		Question: decision.Question,
		Moved:    moved,
	}
	resultJSON, _ := json.Marshal(result)
	j.Result = resultJSON

	log.Printf("[renamer] rename complete: %s -> %s (moved=%v)", j.FilePath, filepath.Base(dest), moved)
	updateProgress(1.0)
	return nil
}

// resolve joins relPath under the media root and rejects traversal outside it.
func (s *Service) resolve(relPath string) (string, error) {
	fullPath := filepath.Join(s.mediaPath, relPath)

	absBase, err := filepath.Abs(s.mediaPath)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(os.PathSeparator)) {
		return "", os.ErrPermission
	}
	if _, err := os.Stat(absFull); err != nil {
		return "", fmt.Errorf("%s: %w", relPath, os.ErrNotExist)
	}
	return absFull, nil
}
