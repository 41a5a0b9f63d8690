package azdevops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/YardenSamorai/taskos-sync/internal/model"
	"github.com/YardenSamorai/taskos-sync/internal/provider"
)

// apiVersion is appended to every request; the work item tracking API is
// stable at 7.1.
const apiVersion = "api-version=7.1"

// contentTypeJSONPatch is required by the work item create/update
// endpoints, which accept JSON Patch documents rather than plain JSON.
const contentTypeJSONPatch = "application/json-patch+json"

// Client is a thin HTTP client for the Azure DevOps REST API, scoped to
// one organization. It handles Bearer token authentication, JSON
// marshaling, and automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new Azure DevOps HTTP client for the organization.
func NewClient(organization, token string) *Client {
	return &Client{
		baseURL: "https://dev.azure.com/" + organization,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, path, nil, "application/json", result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, body, "application/json", result)
}

// PostPatchOps performs an HTTP POST carrying a JSON Patch document, as
// required when creating work items.
func (c *Client) PostPatchOps(
	ctx context.Context,
	path string,
	ops []PatchOp,
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, ops, contentTypeJSONPatch, result)
}

// PatchOps performs an HTTP PATCH carrying a JSON Patch document.
func (c *Client) PatchOps(
	ctx context.Context,
	path string,
	ops []PatchOp,
	result interface{},
) error {
	return c.do(ctx, http.MethodPatch, path, ops, contentTypeJSONPatch, result)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	contentType string,
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(
			ctx, method, url, bodyReader,
		)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf(
				"rate limited (429) on %s %s", method, path,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		// Azure DevOps answers expired OAuth tokens with 401 and
		// insufficient scopes with 203 + an HTML sign-in page.
		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusNonAuthoritativeInfo {
			return &provider.AuthError{
				Provider: model.ProviderAzureDevOps,
				Message: fmt.Sprintf(
					"authentication failed (%d) on %s %s",
					resp.StatusCode, method, path,
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var azErr ErrorResponse
			if json.Unmarshal(respBody, &azErr) == nil && azErr.Message != "" {
				return &provider.RemoteError{
					Provider:   model.ProviderAzureDevOps,
					StatusCode: resp.StatusCode,
					Message: fmt.Sprintf(
						"%s %s: %s", method, path, azErr.Message,
					),
				}
			}
			return &provider.RemoteError{
				Provider:   model.ProviderAzureDevOps,
				StatusCode: resp.StatusCode,
				Message: fmt.Sprintf(
					"%s %s: %s", method, path, string(respBody),
				),
			}
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w",
				method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
