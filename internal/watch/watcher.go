// Package watch monitors the media directory and enqueues a rename job for
// each newly created media file.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/media-namer/backend/internal/job"
	"github.com/media-namer/backend/internal/media"
)

// settleDelay gives the writer time to finish before the file is probed.
const settleDelay = 500 * time.Millisecond

type Watcher struct {
	mediaPath string
	queue     *job.JobQueue
	fsw       *fsnotify.Watcher
}

func New(mediaPath string, queue *job.JobQueue) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(mediaPath); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", mediaPath, err)
	}
	return &Watcher{mediaPath: mediaPath, queue: queue, fsw: fsw}, nil
}

// Start blocks until ctx is cancelled or the watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	log.Printf("[watch] monitoring %s", w.mediaPath)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[watch] stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !media.IsVideoFile(event.Name) && !media.IsImageFile(event.Name) {
				continue
			}

			// Give the writer time to finish before the pipeline probes it.
			time.Sleep(settleDelay)

			rel, err := filepath.Rel(w.mediaPath, event.Name)
			if err != nil {
				log.Printf("[watch] skipping %s: %v", event.Name, err)
				continue
			}

			j, err := w.queue.Enqueue(job.JobRename, rel, job.RenameParams{})
			if err != nil {
				log.Printf("[watch] failed to enqueue %s: %v", rel, err)
				continue
			}
			log.Printf("[watch] queued rename job %s for %s", j.ID, rel)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Printf("[watch] error: %v", err)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}
