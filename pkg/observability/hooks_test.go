package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScanHooks{}
	s.OnFileSkipped(ctx, "pkg/broken.py", errors.New("syntax error"))
	s.OnScanComplete(ctx, ".", 10, 1, 4, time.Second)

	i := NoopIndexHooks{}
	i.OnDistributionSkipped(ctx, "requests-2.31.0.dist-info", nil)
	i.OnIndexBuilt(ctx, 2, 40, time.Second)

	r := NoopResolveHooks{}
	r.OnResolveStart(ctx, "auto")
	r.OnResolveComplete(ctx, "auto", 3, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Scan() should return NoopScanHooks by default")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("Index() should return NoopIndexHooks by default")
	}
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}

	customScan := &testScanHooks{}
	SetScanHooks(customScan)
	if Scan() != customScan {
		t.Error("SetScanHooks should set custom hooks")
	}

	customIndex := &testIndexHooks{}
	SetIndexHooks(customIndex)
	if Index() != customIndex {
		t.Error("SetIndexHooks should set custom hooks")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	Reset()
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Reset() should restore NoopScanHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testScanHooks{}
	SetScanHooks(custom)
	SetScanHooks(nil)

	if Scan() != custom {
		t.Error("SetScanHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testScanHooks{}
	SetScanHooks(h)
	Scan().OnFileSkipped(context.Background(), "a.py", errors.New("boom"))
	Scan().OnFileSkipped(context.Background(), "b.py", errors.New("boom"))

	if len(h.skipped) != 2 || h.skipped[0] != "a.py" {
		t.Errorf("skipped = %v, want [a.py b.py]", h.skipped)
	}
}

type testScanHooks struct {
	NoopScanHooks
	skipped []string
}

func (h *testScanHooks) OnFileSkipped(_ context.Context, path string, _ error) {
	h.skipped = append(h.skipped, path)
}

type testIndexHooks struct{ NoopIndexHooks }
type testResolveHooks struct{ NoopResolveHooks }
