package connect

import (
	"testing"

	"github.com/vietddude/walletbridge/internal/core/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{"disconnected to connecting", domain.ConnectionDisconnected, domain.ConnectionConnecting, true},
		{"disconnected to connected (silent restore)", domain.ConnectionDisconnected, domain.ConnectionConnected, true},
		{"disconnected to error (no provider)", domain.ConnectionDisconnected, domain.ConnectionError, true},
		{"connecting to connected", domain.ConnectionConnecting, domain.ConnectionConnected, true},
		{"connecting to error", domain.ConnectionConnecting, domain.ConnectionError, true},
		{"connecting to disconnected", domain.ConnectionConnecting, domain.ConnectionDisconnected, true},
		{"connected to disconnected", domain.ConnectionConnected, domain.ConnectionDisconnected, true},
		{"connected to connecting (reconnect)", domain.ConnectionConnected, domain.ConnectionConnecting, true},
		{"error to connecting (retry)", domain.ConnectionError, domain.ConnectionConnecting, true},
		{"error to disconnected", domain.ConnectionError, domain.ConnectionDisconnected, true},
		{"error to connected", domain.ConnectionError, domain.ConnectionConnected, false},
		{"same state is a no-op", domain.ConnectionConnected, domain.ConnectionConnected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestTransition_IsValid(t *testing.T) {
	valid := NewTransition(domain.ConnectionConnecting, domain.ConnectionConnected, "test")
	if !valid.IsValid() {
		t.Error("expected connecting->connected to be valid")
	}

	invalid := NewTransition(domain.ConnectionError, domain.ConnectionConnected, "test")
	if invalid.IsValid() {
		t.Error("expected error->connected to be invalid")
	}
}

func TestStateDescription(t *testing.T) {
	for _, s := range []State{
		domain.ConnectionDisconnected,
		domain.ConnectionConnecting,
		domain.ConnectionConnected,
		domain.ConnectionError,
	} {
		if StateDescription(s) == "Unknown state" {
			t.Errorf("missing description for %s", s)
		}
	}
	if StateDescription(State("bogus")) != "Unknown state" {
		t.Error("expected unknown fallback")
	}
}
