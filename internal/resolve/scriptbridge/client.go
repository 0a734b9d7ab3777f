// Package scriptbridge implements the resolve capability interfaces over
// the local scripting gateway that sits next to a running DaVinci Resolve
// instance. The gateway holds the real scripting objects and exposes them
// as opaque handles; this package speaks a small JSON RPC to it and is the
// only place that knows the scripting surface's method names and quirks.
package scriptbridge

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

const (
	defaultCallTimeout  = 30 * time.Second
	defaultProbeTimeout = 2 * time.Second
)

// Client is the HTTP transport to the scripting gateway.
type Client struct {
	baseURL      string
	client       *http.Client
	callTimeout  time.Duration
	probeTimeout time.Duration
}

// NewClient creates a client for a gateway at baseURL, e.g.
// "http://127.0.0.1:15051".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{},
		callTimeout:  defaultCallTimeout,
		probeTimeout: defaultProbeTimeout,
	}
}

// WithCallTimeout returns a copy of the client with a different per-call
// timeout. The zero duration keeps the default.
func (c *Client) WithCallTimeout(d time.Duration) *Client {
	clone := *c
	if d > 0 {
		clone.callTimeout = d
	}
	return &clone
}

type rpcRequest struct {
	Handle string        `json:"handle,omitempty"`
	Method string        `json:"method"`
	Args   []interface{} `json:"args,omitempty"`
}

type rpcResponse struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Handle  string          `json:"handle,omitempty"`
	Handles []string        `json:"handles,omitempty"`
}

// CallError is a failure reported by the gateway or the scripting surface
// itself, as opposed to a transport failure reaching the gateway.
type CallError struct {
	Method  string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("scripting call %s failed: %s", e.Method, e.Message)
}

// handleRef is how object-typed arguments travel over the wire: the gateway
// resolves "$handle" back to the live scripting object.
func handleRef(id string) map[string]string {
	return map[string]string{"$handle": id}
}

func (c *Client) invoke(handle, method string, args ...interface{}) (*rpcResponse, error) {
	return c.invokeTimeout(c.callTimeout, handle, method, args...)
}

func (c *Client) invokeTimeout(timeout time.Duration, handle, method string, args ...interface{}) (*rpcResponse, error) {
	body, err := json.Marshal(rpcRequest{Handle: handle, Method: method, Args: args})
	if err != nil {
		return nil, fmt.Errorf("encode rpc request for %s: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scripting gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response for %s: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scripting gateway returned %d for %s", resp.StatusCode, method)
	}

	var out rpcResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode gateway response for %s: %w", method, err)
	}
	if !out.OK {
		return nil, &CallError{Method: method, Message: out.Error}
	}
	return &out, nil
}

func (c *Client) callString(handle, method string, args ...interface{}) (string, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return "", err
	}
	var s string
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &s); err != nil {
			return "", fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return s, nil
}

func (c *Client) callBool(handle, method string, args ...interface{}) (bool, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return false, err
	}
	var b bool
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &b); err != nil {
			return false, fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return b, nil
}

func (c *Client) callInt(handle, method string, args ...interface{}) (int, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return 0, err
	}
	// Resolve reports counts as floats through some bindings.
	var f float64
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &f); err != nil {
			return 0, fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return int(f), nil
}

func (c *Client) callStrings(handle, method string, args ...interface{}) ([]string, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return nil, err
	}
	var list []string
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &list); err != nil {
			return nil, fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return list, nil
}

func (c *Client) callValue(handle, method string, args ...interface{}) (interface{}, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &v); err != nil {
			return nil, fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return v, nil
}

func (c *Client) callMap(handle, method string, args ...interface{}) (map[string]interface{}, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &m); err != nil {
			return nil, fmt.Errorf("%s returned unexpected shape: %w", method, err)
		}
	}
	return m, nil
}

// callHandle expects the gateway to return a handle to a scripting object.
// The scripting surface reports "object not available" as a null handle, not
// an error; that becomes a CallError here so leaves see a single failure shape.
func (c *Client) callHandle(handle, method string, args ...interface{}) (string, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return "", err
	}
	if resp.Handle == "" {
		return "", &CallError{Method: method, Message: "object not available"}
	}
	return resp.Handle, nil
}

func (c *Client) callHandles(handle, method string, args ...interface{}) ([]string, error) {
	resp, err := c.invoke(handle, method, args...)
	if err != nil {
		return nil, err
	}
	return resp.Handles, nil
}
