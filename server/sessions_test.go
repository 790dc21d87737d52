package server

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
)

func TestSessionManagerSweep(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))
	sm := newSessionManager(time.Minute, zap.NewNop(), nil)
	defer sm.closeAll()

	python, _ := language.Lookup("python")
	idle, idleSession, err := sm.create(exec, python, python.Sample())
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	fresh, _, err := sm.create(exec, python, python.Sample())
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	sm.mu.Lock()
	sm.sessions[idle].lastUsed = time.Now().Add(-2 * time.Minute)
	sm.mu.Unlock()

	if removed := sm.sweep(time.Now()); removed != 1 {
		t.Fatalf("expected 1 expired run, got %d", removed)
	}
	if _, ok := sm.get(idle); ok {
		t.Error("idle run should be gone")
	}
	if _, ok := sm.get(fresh); !ok {
		t.Error("fresh run should be kept")
	}
	if sm.len() != 1 {
		t.Errorf("expected 1 run left, got %d", sm.len())
	}

	if err := idleSession.Provide("x"); err != executor.ErrSessionClosed {
		t.Errorf("expired run should be closed, got %v", err)
	}
}

func TestSessionManagerGetTouches(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))
	sm := newSessionManager(time.Minute, zap.NewNop(), nil)
	defer sm.closeAll()

	python, _ := language.Lookup("python")
	id, _, err := sm.create(exec, python, `print("x")`)
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	sm.mu.Lock()
	sm.sessions[id].lastUsed = time.Now().Add(-2 * time.Minute)
	sm.mu.Unlock()

	sm.get(id)
	if removed := sm.sweep(time.Now()); removed != 0 {
		t.Errorf("touched run should survive, removed %d", removed)
	}
}

func TestSessionManagerRejectsInvalidCode(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))
	sm := newSessionManager(time.Minute, zap.NewNop(), nil)
	defer sm.closeAll()

	python, _ := language.Lookup("python")
	if _, _, err := sm.create(exec, python, " "); err != executor.ErrEmptyCode {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}
	if sm.len() != 0 {
		t.Errorf("expected no runs, got %d", sm.len())
	}
}

func TestSessionManagerCloseAll(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))
	sm := newSessionManager(time.Minute, zap.NewNop(), nil)
	go sm.cleanup(time.Hour)

	python, _ := language.Lookup("python")
	for i := 0; i < 3; i++ {
		if _, _, err := sm.create(exec, python, python.Sample()); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
	}

	sm.closeAll()
	sm.closeAll()
	if sm.len() != 0 {
		t.Errorf("expected no runs, got %d", sm.len())
	}
}
