package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxBodyBytes caps how much of a response body is read. Identity API
// payloads are small; anything bigger is treated as malformed.
const maxBodyBytes = 1 << 20

// HTTPClient is the concrete Client talking JSON over HTTPS.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient builds a client for the identity API at baseURL
// (e.g. "https://id.example.com"). A nil hc falls back to
// http.DefaultClient; timeouts are the transport's concern.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var out AuthResult
	if err := c.postJSON(ctx, "/api/login", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegisterDirect(ctx context.Context, identifier, email, password string) (*RegisterResult, error) {
	body := map[string]string{"identifier": identifier, "email": email, "password": password}
	var out RegisterResult
	if err := c.postJSON(ctx, "/api/register", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegisterSendCode(ctx context.Context, identifier, email string) error {
	body := map[string]string{"identifier": identifier, "email": email}
	return c.postJSON(ctx, "/api/register/send-code", body, "", nil)
}

func (c *HTTPClient) RegisterVerifyCode(ctx context.Context, email, code, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "code": code, "password": password}
	var out AuthResult
	if err := c.postJSON(ctx, "/api/register/verify-code", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestMagicLink(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/api/request-magic-link", body, "", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) ConsumeMagicLink(ctx context.Context, token string) (*AuthResult, error) {
	var out AuthResult
	if err := c.getJSON(ctx, "/api/magic-login", url.Values{"token": {token}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmailToken(ctx context.Context, token string) (*AuthResult, error) {
	var out AuthResult
	if err := c.getJSON(ctx, "/api/verify-email", url.Values{"token": {token}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ExchangeOAuthCode(ctx context.Context, code, verifier string) (*AuthResult, error) {
	body := map[string]string{"code": code, "codeVerifier": verifier}
	var out AuthResult
	if err := c.postJSON(ctx, "/api/auth/x/callback", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/api/logout", struct{}{}, token, nil)
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body any, bearer string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return networkError("encoding request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return networkError("building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, out)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return networkError("building request", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return networkError("identity API unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError("reading response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Message: remoteMessage(data, "session expired")}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{Kind: KindAPI, Message: remoteMessage(data, fmt.Sprintf("identity API returned %s", resp.Status))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return networkError("malformed response body", err)
		}
	}
	return nil
}

// remoteMessage extracts the server's structured {"error": "..."} reason,
// falling back when the body carries none.
func remoteMessage(data []byte, fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return fallback
}
