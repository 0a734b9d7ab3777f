package scriptbridge

import (
	"strings"

	"resolvemcp/internal/resolve"
)

// Dial connects to the scripting gateway and verifies a Resolve instance is
// reachable behind it. The returned Host is not health-checked afterwards;
// the session layer probes IsAlive before each dispatched call.
func Dial(baseURL string) (resolve.Host, error) {
	c := NewClient(baseURL)
	h := &host{c: c}
	if _, err := h.ProductName(); err != nil {
		return nil, err
	}
	return h, nil
}

type host struct {
	c *Client
}

func (h *host) ProductName() (string, error) {
	return h.c.callString("", "GetProductName")
}

func (h *host) Version() (string, error) {
	return h.c.callString("", "GetVersionString")
}

func (h *host) CurrentPage() (string, error) {
	page, err := h.c.callString("", "GetCurrentPage")
	if err != nil {
		return "", err
	}
	// Older Resolve versions report pages capitalized ("Edit").
	return strings.ToLower(page), nil
}

func (h *host) OpenPage(name string) (bool, error) {
	return h.c.callBool("", "OpenPage", strings.ToLower(name))
}

func (h *host) IsAlive() bool {
	_, err := h.c.invokeTimeout(h.c.probeTimeout, "", "GetCurrentPage")
	return err == nil
}

func (h *host) ProjectManager() (resolve.ProjectManager, error) {
	id, err := h.c.callHandle("", "GetProjectManager")
	if err != nil {
		return nil, err
	}
	return &projectManager{c: h.c, id: id}, nil
}

func (h *host) Close() error {
	_, err := h.c.invoke("", "Release")
	return err
}
