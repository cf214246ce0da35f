// Package httpclient es un cliente JSON mínimo para sondas y herramientas
// que hablan con la propia API (cmd/healthcheck).
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{HTTP: &http.Client{Timeout: timeout}}
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("httpclient: base url inválida: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// StatusError es una respuesta no-2xx. Detail viene del cuerpo {detail} si existe.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Detail)
}

// DoJSON envía in (si no es nil) como JSON y decodifica la respuesta en out.
// token vacío = sin Authorization.
func (c *Client) DoJSON(ctx context.Context, method, path, token string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: cliente nil")
	}
	full, err := c.resolve(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, body)
	if err != nil {
		return fmt.Errorf("httpclient: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, full, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var d struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &d) == nil && d.Detail != "" {
			se.Detail = d.Detail
		} else {
			se.Detail = strings.TrimSpace(string(raw))
		}
		return se
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal: %w", err)
	}
	return nil
}

func (c *Client) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("httpclient: url vacía")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if c.BaseURL == "" {
		return "", errors.New("httpclient: path relativo sin BaseURL")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path, nil
}
