package delivery

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client pushes goto files to the piloting server's waypoint API, which
// stages and deploys them to the glider over the dockserver link.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string { return "api" }

// Healthcheck checks if the piloting server is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// Deliver uploads the goto document as a multipart form and asks the server
// to deploy it.
func (c *Client) Deliver(ctx context.Context, glider, doc string) error {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("secret", c.apiKey); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.WriteField("glider", glider); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("file", "goto_list.ma")
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, strings.NewReader(doc)); err != nil {
		return fmt.Errorf("failed to copy goto document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/gliders/%s/goto", c.baseURL, glider)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload returned status %d", resp.StatusCode)
	}
	return nil
}
