// Package speech provides the client for the external speech recognition
// service backing the transcription endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"
)

const (
	// clientTimeout is the total request timeout. Transcription of a long
	// recording can take a while, so this is generous.
	clientTimeout = 60 * time.Second
	// dialTimeout is the connection timeout.
	dialTimeout = 10 * time.Second
	// responseHeaderTimeout is time to wait for response headers.
	responseHeaderTimeout = 30 * time.Second
)

// ErrNotConfigured indicates no speech API endpoint is set.
var ErrNotConfigured = errors.New("speech service is not configured")

// Client forwards audio to the external speech recognition service.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// NewClient creates a speech client. An empty apiURL yields a client whose
// Transcribe always returns ErrNotConfigured.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: clientTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   dialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: responseHeaderTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// Configured reports whether an upstream endpoint is set.
func (c *Client) Configured() bool {
	return c.apiURL != ""
}

// Transcribe forwards the audio as multipart form data and returns the
// recognized text. Upstream errors are passed through with their message.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, fileName, contentType string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", fileName)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call speech service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read speech response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		Transcription string `json:"transcription"`
		Text          string `json:"text"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode speech response: %w", err)
	}

	if decoded.Transcription != "" {
		return decoded.Transcription, nil
	}
	return decoded.Text, nil
}
