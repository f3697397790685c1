package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDataset struct {
	err error
}

func (m *mockDataset) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_Loaded(t *testing.T) {
	svc := New(&mockDataset{}, "1.2.3")
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["dataset"] != CheckOK {
		t.Errorf("expected dataset %q, got %q", CheckOK, r.Checks["dataset"])
	}
	if r.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", r.Version)
	}
}

func TestCheck_NotLoaded(t *testing.T) {
	svc := New(&mockDataset{err: errors.New("not loaded")}, "dev")
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["dataset"] != CheckError {
		t.Errorf("expected dataset %q, got %q", CheckError, r.Checks["dataset"])
	}
}
