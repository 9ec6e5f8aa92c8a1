package transport

import (
	"errors"
	"testing"
	"time"
)

func TestNewEmbeddedTor(t *testing.T) {
	t.Parallel()

	t.Run("uses default startup timeout", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor()
		if e.startupTimeout != DefaultTorStartupTimeout {
			t.Errorf("startupTimeout = %v, want %v", e.startupTimeout, DefaultTorStartupTimeout)
		}
	})

	t.Run("applies startup timeout option", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor(WithStartupTimeout(90 * time.Second))
		if e.startupTimeout != 90*time.Second {
			t.Errorf("startupTimeout = %v, want 90s", e.startupTimeout)
		}
	})

	t.Run("ignores non-positive timeout", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor(WithStartupTimeout(0))
		if e.startupTimeout != DefaultTorStartupTimeout {
			t.Errorf("startupTimeout = %v, want %v", e.startupTimeout, DefaultTorStartupTimeout)
		}
	})
}

func TestEmbeddedTor_NotStarted(t *testing.T) {
	t.Parallel()

	e := NewEmbeddedTor()

	if e.IsRunning() {
		t.Error("expected not running")
	}
	if e.SocksAddr() != "" {
		t.Errorf("SocksAddr() = %q, want empty", e.SocksAddr())
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Stop() on unstarted instance: %v", err)
	}
	if _, err := e.NewClient(time.Second); !errors.Is(err, ErrTorNotRunning) {
		t.Errorf("expected ErrTorNotRunning, got %v", err)
	}
}
