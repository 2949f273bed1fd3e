package worker

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubWorker struct {
	name     string
	started  int
	stopped  int
	startErr error
	stopErr  error
}

func (w *stubWorker) Start(ctx context.Context) error {
	w.started++
	return w.startErr
}

func (w *stubWorker) Stop() error {
	w.stopped++
	return w.stopErr
}

func (w *stubWorker) Name() string { return w.name }

func TestWorkerManagerLifecycle(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	a := &stubWorker{name: "a"}
	b := &stubWorker{name: "b"}
	m.Register(a)
	m.Register(b)

	if m.GetWorkerCount() != 2 {
		t.Fatalf("GetWorkerCount() = %d, want 2", m.GetWorkerCount())
	}
	if m.IsRunning() {
		t.Fatal("manager running before StartAll")
	}

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if !m.IsRunning() {
		t.Error("manager not running after StartAll")
	}
	if a.started != 1 || b.started != 1 {
		t.Errorf("starts = (%d, %d), want (1, 1)", a.started, b.started)
	}

	if err := m.StopAll(); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
	if m.IsRunning() {
		t.Error("manager still running after StopAll")
	}
	if a.stopped != 1 || b.stopped != 1 {
		t.Errorf("stops = (%d, %d), want (1, 1)", a.stopped, b.stopped)
	}
}

func TestWorkerManagerStartContinuesPastFailure(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	bad := &stubWorker{name: "bad", startErr: errors.New("no broker")}
	good := &stubWorker{name: "good"}
	m.Register(bad)
	m.Register(good)

	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if good.started != 1 {
		t.Error("worker after the failing one was not started")
	}

	if err := m.StartAll(context.Background()); err == nil {
		t.Error("expected second StartAll to fail while running")
	}
	if err := m.StopAll(); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
}
