package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/media-namer/backend/internal/media"
)

// rescanInterval is how often watch mode looks for new files.
const rescanInterval = 30 * time.Second

type options struct {
	server     string
	username   string
	password   string
	sourceDir  string
	outputDir  string
	userPrompt string
	maxFrames  int
	watch      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "renamer",
		Short:         "Batch-rename media files using the naming server",
		Long:          "Walks a media directory, asks the server to digest and rename each file, and reports the decisions. The source directory must be the server's media root (or a mount of it).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVar(&opts.server, "server", "http://localhost:8000", "Rename server base URL")
	rootCmd.Flags().StringVar(&opts.username, "username", "admin", "Server username")
	rootCmd.Flags().StringVar(&opts.password, "password", "", "Server password")
	rootCmd.Flags().StringVar(&opts.sourceDir, "source-dir", ".", "Media directory to scan")
	rootCmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Destination for copied files (server default if empty)")
	rootCmd.Flags().StringVar(&opts.userPrompt, "user-prompt", "", "Extra context for the naming model")
	rootCmd.Flags().IntVar(&opts.maxFrames, "max-frames", 0, "Visual clue sample count (server default if 0)")
	rootCmd.Flags().BoolVar(&opts.watch, "watch", false, "Keep scanning for new files")

	return rootCmd
}

func run(ctx context.Context, opts *options) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sourceDir, err := filepath.Abs(opts.sourceDir)
	if err != nil {
		return fmt.Errorf("resolve source dir: %w", err)
	}

	client := newAPIClient(opts.server)
	if err := client.login(ctx, opts.username, opts.password); err != nil {
		return err
	}

	processed := make(map[string]bool)
	for {
		files, err := scanMedia(sourceDir)
		if err != nil {
			return err
		}

		for _, rel := range files {
			if processed[rel] {
				continue
			}
			processed[rel] = true
			renameOne(ctx, client, opts, rel)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		if !opts.watch {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rescanInterval):
		}
	}
}

// renameOne queues a rename for one file and waits for the outcome. Failures
// are logged so a batch keeps going.
func renameOne(ctx context.Context, client *apiClient, opts *options, rel string) {
	j, err := client.enqueueRename(ctx, rel, opts.userPrompt, opts.maxFrames, opts.outputDir)
	if err != nil {
		log.Printf("skip %s: %v", rel, err)
		return
	}

	done, err := client.waitForJob(ctx, j.ID)
	if err != nil {
		log.Printf("skip %s: %v", rel, err)
		return
	}
	if done.Status != "completed" {
		log.Printf("skip %s: job %s (%s)", rel, done.Status, done.Error)
		return
	}

	var res renameResult
	if err := json.Unmarshal(done.Result, &res); err != nil {
		log.Printf("skip %s: bad result: %v", rel, err)
		return
	}

	action := "copied"
	if res.Moved {
		action = "renamed"
	}
	fmt.Printf("%s -> %s (%s)\n", rel, res.NewName, action)
	fmt.Printf("  reason: %s\n", res.Reason)
	if res.Tags != "" {
		fmt.Printf("  tags: %s\n", res.Tags)
	}
	if res.Question != "" {
		fmt.Printf("  question: %s\n", res.Question)
	}
}

// scanMedia lists supported media files relative to the source dir.
func scanMedia(sourceDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !media.IsVideoFile(path) && !media.IsImageFile(path) {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", sourceDir, err)
	}
	return files, nil
}
