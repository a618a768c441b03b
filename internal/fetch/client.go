package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxDocumentBytes caps how much of a response body is read.
const maxDocumentBytes = 8 << 20

// ErrTooLarge is the cause of a NetworkError for a document larger than the
// read limit.
var ErrTooLarge = errors.New("document exceeds 8 MiB limit")

// NetworkError is returned when a document cannot be fetched. Status is set
// for non-success responses; Err is set for transport failures.
type NetworkError struct {
	Path   string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP error! status: %d", e.Path, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client fetches presentation documents over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the raw text of the document at path. Absolute URLs are
// used as-is; anything else is resolved against the base URL.
func (c *Client) Fetch(ctx context.Context, path string) (string, error) {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &NetworkError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "text/markdown, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return "", &NetworkError{Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", &NetworkError{Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > maxDocumentBytes {
		return "", &NetworkError{Path: path, Err: ErrTooLarge}
	}
	return string(body), nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
