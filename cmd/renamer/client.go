package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// apiClient is a thin HTTP client for the rename server.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.token = resp.Token
	return nil
}

type jobView struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type renameResult struct {
	NewName  string `json:"new_name"`
	DestPath string `json:"dest_path"`
	Reason   string `json:"reason"`
	Tags     string `json:"tags"`
	Question string `json:"question,omitempty"`
	Moved    bool   `json:"moved"`
}

func (c *apiClient) enqueueRename(ctx context.Context, relPath, userPrompt string, maxFrames int, outputDir string) (*jobView, error) {
	var j jobView
	err := c.post(ctx, "/api/rename", map[string]interface{}{
		"path":        relPath,
		"user_prompt": userPrompt,
		"max_frames":  maxFrames,
		"output_dir":  outputDir,
	}, &j)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// waitForJob polls until the job leaves the pending and running states.
func (c *apiClient) waitForJob(ctx context.Context, id string) (*jobView, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var j jobView
		if err := c.get(ctx, "/api/jobs/"+id, &j); err != nil {
			return nil, err
		}
		if j.Status != "pending" && j.Status != "running" {
			return &j, nil
		}
	}
}

func (c *apiClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *apiClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
