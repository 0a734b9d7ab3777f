package mediator

import (
	"errors"
	"testing"

	"resolvemcp/internal/resolve"
	"resolvemcp/internal/resolve/resolvetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnPageRestoresOnSuccess(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	res, err := g.RunOnPage(resolve.PageFusion, func() (*Result, error) {
		page, _ := host.CurrentPage()
		assert.Equal(t, resolve.PageFusion, page)
		return &Result{Message: "ok"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)
	assert.Equal(t, []string{resolve.PageFusion, resolve.PageEdit}, host.PageSwitches)
}

func TestRunOnPageRestoresOnLeafError(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	leafErr := errors.New("leaf exploded")
	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return nil, leafErr
	})

	assert.ErrorIs(t, err, leafErr)
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)
}

func TestRunOnPageRestoresOnPanic(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	assert.Panics(t, func() {
		_, _ = g.RunOnPage(resolve.PageColor, func() (*Result, error) {
			panic("leaf panicked")
		})
	})
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)
}

func TestRunOnPageNoSwitchWhenAlreadyThere(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageColor
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return &Result{Message: "ok"}, nil
	})

	require.NoError(t, err)
	assert.Empty(t, host.PageSwitches, "no switch needed, none attempted")
}

func TestRunOnPageReentrantSamePageSingleSwitch(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageFusion, func() (*Result, error) {
		// A helper inside the same call tree re-enters the same guard.
		return g.RunOnPage(resolve.PageFusion, func() (*Result, error) {
			return &Result{Message: "nested"}, nil
		})
	})

	require.NoError(t, err)
	// One switch in, one restore out. No thrashing from the nesting.
	assert.Equal(t, []string{resolve.PageFusion, resolve.PageEdit}, host.PageSwitches)
}

func TestRunOnPageNestedDifferentPagesUnwindLIFO(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return g.RunOnPage(resolve.PageFusion, func() (*Result, error) {
			return &Result{Message: "inner"}, nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		resolve.PageColor,  // outer forward
		resolve.PageFusion, // inner forward
		resolve.PageColor,  // inner restore
		resolve.PageEdit,   // outer restore
	}, host.PageSwitches)
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)
}

func TestRunOnPageFramesDoNotLeakAcrossGuards(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit

	// First call tree guards color; a fresh guard for the next call must
	// not see its frame and must switch again.
	g1 := newPageGuard(host)
	_, err := g1.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return &Result{Message: "first"}, nil
	})
	require.NoError(t, err)

	g2 := newPageGuard(host)
	_, err = g2.RunOnPage(resolve.PageColor, func() (*Result, error) {
		page, _ := host.CurrentPage()
		assert.Equal(t, resolve.PageColor, page)
		return &Result{Message: "second"}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		resolve.PageColor, resolve.PageEdit,
		resolve.PageColor, resolve.PageEdit,
	}, host.PageSwitches)
}

func TestRunOnPageAbandonedSkipsRestore(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		// The dispatcher gives up on the call while the leaf is still
		// running; the pending restore must be disarmed.
		g.abandon()
		return &Result{Message: "late"}, nil
	})

	require.NoError(t, err)
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageColor, page, "abandoned call must not switch the shared page")
	assert.Equal(t, []string{resolve.PageColor}, host.PageSwitches)
	assert.Empty(t, g.frames, "frame still unwinds with the call tree")
}

func TestRunOnPageRefusedSwitch(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	host.RefusePages = map[string]bool{resolve.PageFairlight: true}
	g := newPageGuard(host)

	invoked := false
	_, err := g.RunOnPage(resolve.PageFairlight, func() (*Result, error) {
		invoked = true
		return &Result{Message: "ok"}, nil
	})

	var pageErr *PageSwitchError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, resolve.PageFairlight, pageErr.Page)
	assert.False(t, invoked, "leaf must not run after a failed forward switch")
	page, _ := host.CurrentPage()
	assert.Equal(t, resolve.PageEdit, page)
}

func TestRunOnPageHardSwitchFault(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	host.OpenPageErr = errors.New("scripting surface wedged")
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return &Result{Message: "ok"}, nil
	})

	var pageErr *PageSwitchError
	require.ErrorAs(t, err, &pageErr)
	assert.ErrorContains(t, err, "wedged")
}

func TestRunOnPageFailedRestoreSurfacesWhenLeafSucceeded(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		// The application starts refusing switches mid-call; restoration
		// back to edit will fail.
		host.RefusePages = map[string]bool{resolve.PageEdit: true}
		return &Result{Message: "ok"}, nil
	})

	var pageErr *PageSwitchError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, resolve.PageEdit, pageErr.Page)
}

func TestRunOnPageFailedRestoreDoesNotMaskLeafError(t *testing.T) {
	host := resolvetest.NewHost()
	host.Page = resolve.PageEdit
	g := newPageGuard(host)

	leafErr := errors.New("leaf failed first")
	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		host.RefusePages = map[string]bool{resolve.PageEdit: true}
		return nil, leafErr
	})

	assert.ErrorIs(t, err, leafErr)
}

func TestRunOnPageCurrentPageFault(t *testing.T) {
	host := resolvetest.NewHost()
	host.CurrentPageErr = errors.New("no response")
	g := newPageGuard(host)

	_, err := g.RunOnPage(resolve.PageColor, func() (*Result, error) {
		return &Result{Message: "ok"}, nil
	})

	var pageErr *PageSwitchError
	require.ErrorAs(t, err, &pageErr)
}
