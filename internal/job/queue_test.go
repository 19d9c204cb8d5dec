package job

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// newTestQueue builds a queue over a temp database without starting the
// worker, so tests control exactly when jobs move.
func newTestQueue(t *testing.T, pendingCap int) *JobQueue {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE jobs (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		file_path TEXT NOT NULL,
		params TEXT NOT NULL,
		progress REAL DEFAULT 0,
		result TEXT,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		completed_at DATETIME
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &JobQueue{
		db:       db,
		pending:  make(chan string, pendingCap),
		cancels:  make(map[string]context.CancelFunc),
		handlers: make(map[JobType]JobHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func TestEnqueuePersistsWhenChannelFull(t *testing.T) {
	q := newTestQueue(t, 1)

	first, err := q.Enqueue(JobRename, "a.mp4", RenameParams{})
	if err != nil {
		t.Fatalf("Enqueue first: %v", err)
	}
	second, err := q.Enqueue(JobRename, "b.mp4", RenameParams{})
	if err != nil {
		t.Fatalf("Enqueue second: %v", err)
	}

	// Only the first fit into the channel
	if got := <-q.pending; got != first.ID {
		t.Fatalf("channel held %s, want %s", got, first.ID)
	}
	select {
	case got := <-q.pending:
		t.Fatalf("channel held unexpected job %s", got)
	default:
	}

	// The dropped job is still pending in the database
	j, err := q.GetJob(second.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if j.Status != StatusPending {
		t.Errorf("dropped job status = %s, want pending", j.Status)
	}
}

func TestPollPendingRequeuesDroppedJobs(t *testing.T) {
	q := newTestQueue(t, 1)

	first, err := q.Enqueue(JobRename, "a.mp4", RenameParams{})
	if err != nil {
		t.Fatalf("Enqueue first: %v", err)
	}
	second, err := q.Enqueue(JobRename, "b.mp4", RenameParams{})
	if err != nil {
		t.Fatalf("Enqueue second: %v", err)
	}

	// Channel is full, so the scan must be a no-op
	q.pollPending()
	if got := <-q.pending; got != first.ID {
		t.Fatalf("channel held %s, want %s", got, first.ID)
	}

	// Simulate the worker finishing the first job, then scan again
	if _, err := q.db.Exec("UPDATE jobs SET status = ? WHERE id = ?", StatusCompleted, first.ID); err != nil {
		t.Fatalf("update status: %v", err)
	}
	q.pollPending()

	select {
	case got := <-q.pending:
		if got != second.ID {
			t.Errorf("requeued %s, want %s", got, second.ID)
		}
	default:
		t.Fatal("pending scan did not requeue the dropped job")
	}
}
