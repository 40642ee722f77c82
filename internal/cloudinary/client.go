// Package cloudinary implements the unsigned image upload API.
package cloudinary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com"

// UploadResult is the subset of the upload response we use.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// UploadParams describes one upload. Exactly one of File or RemoteURL must
// be set: File streams binary content, RemoteURL hands Cloudinary a URL to
// fetch server-side.
type UploadParams struct {
	File      io.Reader
	Filename  string
	RemoteURL string
	Preset    string
	Folder    string
}

// APIError is a non-success response from the upload API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the Cloudinary upload API for a single cloud.
type Client struct {
	cloudName  string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the given cloud name.
func New(cloudName string, opts ...Option) *Client {
	c := &Client{
		cloudName:  cloudName,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload posts the image to the unsigned upload endpoint and returns the
// hosted result. A single attempt is made; failures are not retried.
func (c *Client) Upload(ctx context.Context, params UploadParams) (*UploadResult, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		errCh <- writeUploadForm(writer, pw, params)
	}()

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		_ = pr.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// A rejection can arrive before the whole body is consumed (file too
	// large for the preset), which kills the pipe under the form writer.
	// The response is still the authoritative error.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		<-errCh
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if formErr := <-errCh; formErr != nil {
		return nil, fmt.Errorf("failed to write upload form: %w", formErr)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	if result.SecureURL == "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "Upload failed"}
	}
	return &result, nil
}

func writeUploadForm(writer *multipart.Writer, pw *io.PipeWriter, params UploadParams) error {
	defer pw.Close()
	defer writer.Close()

	fail := func(err error) error {
		pw.CloseWithError(err)
		return err
	}

	if err := writer.WriteField("upload_preset", params.Preset); err != nil {
		return fail(err)
	}
	if params.Folder != "" {
		if err := writer.WriteField("folder", params.Folder); err != nil {
			return fail(err)
		}
	}

	if params.File != nil {
		name := params.Filename
		if name == "" {
			name = "upload"
		}
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			return fail(err)
		}
		if _, err := io.Copy(part, params.File); err != nil {
			return fail(err)
		}
		return nil
	}

	// No binary content: pass the source URL through and let Cloudinary
	// fetch it server-side.
	if err := writer.WriteField("file", params.RemoteURL); err != nil {
		return fail(err)
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error response
// body, falling back to a generic message when the body is not the
// expected shape.
func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return "Upload failed"
}
