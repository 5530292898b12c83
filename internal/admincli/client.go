// Package admincli implements the HTTPS client cmd/authadmin uses to talk to
// the admin API: a trust-on-first-use TLS transport, bearer-token login, and
// a small GraphQL request helper.
package admincli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	admintls "github.com/wowauth/authd/internal/admincli/tls"
)

const (
	contentTypeJSON = "application/json"
	defaultTimeout  = 30 * time.Second
)

// Client is an HTTP client for the admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient builds a client for the admin API at server (host:port),
// verifying the server's certificate against store using trust-on-first-use.
func NewClient(server string, store *admintls.CertificateStore, assumeYes bool) *Client {
	transport := &http.Transport{
		TLSClientConfig: admintls.ClientConfig(server, store, assumeYes),
	}
	return &Client{
		baseURL:    "https://" + server,
		httpClient: &http.Client{Transport: transport, Timeout: defaultTimeout},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login exchanges username/password for a bearer token via /admin/login.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	reqBody := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/admin/login", reqBody, &resp, false); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// GraphQL sends query with variables to /graphql and decodes the "data"
// field of the response into out.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	reqBody := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{query, variables}

	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.post(ctx, "/graphql", reqBody, &resp, true); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("graphql: %s", resp.Errors[0].Message)
	}
	if out != nil && resp.Data != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decoding graphql response: %w", err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any, authenticated bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	if authenticated {
		if c.token == "" {
			return fmt.Errorf("not logged in: run 'authadmin login' first")
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBytes, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
