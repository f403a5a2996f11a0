package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	r := New(&mockPinger{}, &mockChecker{}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if r.Checks["store"] != CheckOK || r.Checks["embeddings"] != CheckOK {
		t.Errorf("checks = %v", r.Checks)
	}
}

func TestCheck_StoreDown(t *testing.T) {
	r := New(&mockPinger{err: errors.New("conn refused")}, &mockChecker{}).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("status = %q, want %q", r.Status, Degraded)
	}
	if r.Checks["store"] != CheckError {
		t.Errorf("store check = %q, want error", r.Checks["store"])
	}
	if r.Checks["embeddings"] != CheckOK {
		t.Errorf("embeddings check = %q, want ok", r.Checks["embeddings"])
	}
}

func TestCheck_EmbedderDown(t *testing.T) {
	r := New(&mockPinger{}, &mockChecker{err: errors.New("timeout")}).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("status = %q, want %q", r.Status, Degraded)
	}
	if r.Checks["embeddings"] != CheckError {
		t.Errorf("embeddings check = %q, want error", r.Checks["embeddings"])
	}
}

func TestCheck_EverythingDown(t *testing.T) {
	r := New(&mockPinger{err: errors.New("down")}, &mockChecker{err: errors.New("down")}).Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("status = %q, want %q", r.Status, Unhealthy)
	}
}

func TestCheck_NoEmbedder(t *testing.T) {
	r := New(&mockPinger{}, nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if _, ok := r.Checks["embeddings"]; ok {
		t.Error("embeddings check should be absent when no checker is wired")
	}
}

func TestCheck_NoEmbedder_StoreDown(t *testing.T) {
	r := New(&mockPinger{err: errors.New("down")}, nil).Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("status = %q, want %q", r.Status, Unhealthy)
	}
}
