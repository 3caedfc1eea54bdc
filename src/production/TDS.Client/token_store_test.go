package client_test

import (
	"path/filepath"
	"testing"

	client "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Client"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := client.NewTokenStore(path)
	if err != nil {
		t.Fatalf("NewTokenStore() failed: %v", err)
	}

	// Nothing stored yet
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if token != "" {
		t.Errorf("Load() on empty store = %q", token)
	}

	if err := store.Save("session-token"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// A fresh store on the same path sees the token: survives restarts
	reopened, err := client.NewTokenStore(path)
	if err != nil {
		t.Fatalf("NewTokenStore() failed: %v", err)
	}
	token, err = reopened.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if token != "session-token" {
		t.Errorf("Load() = %q, want %q", token, "session-token")
	}

	// Clear is logout
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("Load() after Clear failed: %v", err)
	}
	if token != "" {
		t.Errorf("Load() after Clear = %q", token)
	}

	// Clearing an empty store is not an error
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() failed: %v", err)
	}
}
