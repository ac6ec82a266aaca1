// Package storage is the remote blob store the application keeps its sales
// files and SKU images in: a flat path -> content mapping backed by the
// GitHub contents API. Calls are blocking round-trips with no retry policy;
// a non-2xx response surfaces immediately with the underlying status and
// message.
package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/username/noonfolio/src/logger"
)

var (
	ErrNotFound      = errors.New("path not found in store")
	ErrRequestFailed = errors.New("store request failed")
)

type GitHubStore struct {
	apiBase    string
	owner      string
	repo       string
	branch     string
	token      string
	httpClient *http.Client
}

func NewGitHubStore(apiBase, owner, repo, branch, token string) *GitHubStore {
	return &GitHubStore{
		apiBase: strings.TrimRight(apiBase, "/"),
		owner:   owner,
		repo:    repo,
		branch:  branch,
		token:   token,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type contentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (s *GitHubStore) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.apiBase, s.owner, s.repo, path)
}

func (s *GitHubStore) newRequest(method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+s.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%w: %s returned status %d: %s", ErrRequestFailed, op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Get fetches a blob. Absence is a normal outcome, reported via found=false.
// The sha is returned so callers can hand it back on delete/update.
func (s *GitHubStore) Get(path string) (data []byte, sha string, found bool, err error) {
	req, err := s.newRequest(http.MethodGet, s.contentsURL(path)+"?ref="+s.branch, nil)
	if err != nil {
		return nil, "", false, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: get %s: %v", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", false, statusError("get "+path, resp)
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, "", false, fmt.Errorf("failed to decode store response for %s: %w", path, err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to decode content for %s: %w", path, err)
	}
	return raw, content.SHA, true, nil
}

// Put creates or updates a blob. The existing sha, when any, is looked up
// first so updates do not fail the contents API's conflict check.
func (s *GitHubStore) Put(path string, data []byte, message string) error {
	_, sha, exists, err := s.Get(path)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  s.branch,
	}
	if exists {
		payload["sha"] = sha
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := s.newRequest(http.MethodPut, s.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put "+path, resp)
	}
	logger.L.Info("Stored blob", "path", path, "bytes", len(data))
	return nil
}

// List returns the file names directly under a prefix. A missing prefix is
// an empty listing, not an error.
func (s *GitHubStore) List(prefix string) ([]string, error) {
	req, err := s.newRequest(http.MethodGet, s.contentsURL(prefix)+"?ref="+s.branch, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrRequestFailed, prefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []string{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list "+prefix, resp)
	}

	var entries []contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode store listing for %s: %w", prefix, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Delete removes a blob. The contents API requires the current sha, so the
// blob is fetched first; a missing blob is ErrNotFound.
func (s *GitHubStore) Delete(path string, message string) error {
	_, sha, found, err := s.Get(path)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	payload := map[string]string{
		"message": message,
		"sha":     sha,
		"branch":  s.branch,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := s.newRequest(http.MethodDelete, s.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrRequestFailed, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete "+path, resp)
	}
	logger.L.Info("Deleted blob", "path", path)
	return nil
}
