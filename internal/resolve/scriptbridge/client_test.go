package scriptbridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves canned rpc responses keyed by "handle.method".
func fakeGateway(t *testing.T, responses map[string]rpcResponse) (*httptest.Server, *[]rpcRequest) {
	t.Helper()
	var seen []rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rpc", r.URL.Path)
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)
		key := req.Handle + "." + req.Method
		resp, ok := responses[key]
		if !ok {
			resp = rpcResponse{OK: false, Error: "unknown method " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestDialProbesProductName(t *testing.T) {
	srv, seen := fakeGateway(t, map[string]rpcResponse{
		".GetProductName": {OK: true, Result: json.RawMessage(`"DaVinci Resolve"`)},
	})

	h, err := Dial(srv.URL)
	require.NoError(t, err)
	require.Len(t, *seen, 1)
	assert.Equal(t, "GetProductName", (*seen)[0].Method)

	name, err := h.ProductName()
	require.NoError(t, err)
	assert.Equal(t, "DaVinci Resolve", name)
}

func TestDialFailsWhenGatewayRejects(t *testing.T) {
	srv, _ := fakeGateway(t, map[string]rpcResponse{
		".GetProductName": {OK: false, Error: "Resolve not running"},
	})

	_, err := Dial(srv.URL)
	require.Error(t, err)
	var callErr *CallError
	assert.ErrorAs(t, err, &callErr)
	assert.Contains(t, callErr.Message, "not running")
}

func TestCurrentPageNormalizesCase(t *testing.T) {
	srv, _ := fakeGateway(t, map[string]rpcResponse{
		".GetCurrentPage": {OK: true, Result: json.RawMessage(`"Edit"`)},
	})

	h := &host{c: NewClient(srv.URL)}
	page, err := h.CurrentPage()
	require.NoError(t, err)
	assert.Equal(t, "edit", page)
}

func TestNullHandleBecomesCallError(t *testing.T) {
	srv, _ := fakeGateway(t, map[string]rpcResponse{
		".GetProjectManager": {OK: true}, // ok but no handle: object absent
	})

	h := &host{c: NewClient(srv.URL)}
	_, err := h.ProjectManager()
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "GetProjectManager", callErr.Method)
}

func TestObjectNavigation(t *testing.T) {
	srv, seen := fakeGateway(t, map[string]rpcResponse{
		".GetProjectManager":               {OK: true, Handle: "pm-1"},
		"pm-1.GetCurrentProject":           {OK: true, Handle: "proj-1"},
		"proj-1.GetName":                   {OK: true, Result: json.RawMessage(`"My Film"`)},
		"proj-1.GetCurrentTimeline":        {OK: true, Handle: "tl-1"},
		"tl-1.GetTrackCount":               {OK: true, Result: json.RawMessage(`2`)},
		"tl-1.GetItemListInTrack":          {OK: true, Handles: []string{"item-1", "item-2"}},
		"item-1.GetName":                   {OK: true, Result: json.RawMessage(`"clip A"`)},
		"proj-1.GetSetting":                {OK: true, Result: json.RawMessage(`"Half Resolution"`)},
		"pm-1.GetProjectListInCurrentFolder": {OK: true, Result: json.RawMessage(`["My Film","Other"]`)},
	})

	h := &host{c: NewClient(srv.URL)}
	pm, err := h.ProjectManager()
	require.NoError(t, err)

	names, err := pm.ProjectNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"My Film", "Other"}, names)

	proj, err := pm.CurrentProject()
	require.NoError(t, err)

	name, err := proj.Name()
	require.NoError(t, err)
	assert.Equal(t, "My Film", name)

	quality, err := proj.Setting("proxyQuality")
	require.NoError(t, err)
	assert.Equal(t, "Half Resolution", quality)

	tl, err := proj.CurrentTimeline()
	require.NoError(t, err)

	count, err := tl.TrackCount("video")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := tl.ItemsInTrack("video", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	itemName, err := items[0].Name()
	require.NoError(t, err)
	assert.Equal(t, "clip A", itemName)

	// The setting lookup travelled with its key argument.
	var settingReq *rpcRequest
	for i := range *seen {
		if (*seen)[i].Method == "GetSetting" {
			settingReq = &(*seen)[i]
		}
	}
	require.NotNil(t, settingReq)
	assert.Equal(t, "proxyQuality", settingReq.Args[0])
}

func TestMarkersKeyedByFrame(t *testing.T) {
	srv, _ := fakeGateway(t, map[string]rpcResponse{
		"tl-1.GetMarkers": {OK: true, Result: json.RawMessage(
			`{"86400":{"name":"Scene 1","color":"Blue","note":"","duration":1}}`)},
	})

	tl := &timeline{c: NewClient(srv.URL), id: "tl-1"}
	markers, err := tl.Markers()
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "Scene 1", markers[86400].Name)
	assert.Equal(t, "Blue", markers[86400].Color)
}
