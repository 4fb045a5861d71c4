// Package backend implements the HTTP client for the external tool-execution
// service. The orchestrator only ever sees the normalized text result or an
// error; tool-specific payloads stay on the other side of this boundary.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client calls the tool-execution backend's POST /call_tool endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the backend at baseURL. A zero timeout
// falls back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type callRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

type callResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Error   string `json:"error,omitempty"`
}

// CallTool issues a single invocation. A non-2xx status or transport failure
// is returned as an error carrying whatever description the backend gave;
// the caller decides how to surface it.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (string, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	payload, err := json.Marshal(callRequest{ToolName: name, Arguments: arguments})
	if err != nil {
		return "", fmt.Errorf("marshal tool request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call_tool", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call tool %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read tool response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tool backend returned %d: %s", resp.StatusCode, errorText(body))
	}

	var decoded callResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode tool response: %w", err)
	}
	if !decoded.Success {
		msg := decoded.Error
		if msg == "" {
			msg = "tool reported an error"
		}
		return "", fmt.Errorf("tool %s failed: %s", name, msg)
	}
	if decoded.Result == "" {
		return "No result returned", nil
	}
	return decoded.Result, nil
}

// errorText extracts a readable message from an error body, which may be
// JSON ({"error": ...} or {"detail": ...}) or plain text.
func errorText(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "no response body"
	}
	return text
}
