package ratelimit

import (
	"testing"
	"time"
)

func TestFixedWindowLimit(t *testing.T) {
	fw := NewFixedWindow(100, time.Hour)

	for i := 0; i < 100; i++ {
		if !fw.Allow("10.0.0.1") {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// 101st request in the same window is denied
	if fw.Allow("10.0.0.1") {
		t.Error("Expected request over the limit to be denied")
	}
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	fw := NewFixedWindow(1, time.Hour)

	if !fw.Allow("10.0.0.1") {
		t.Error("Expected first client's request to be allowed")
	}
	if !fw.Allow("10.0.0.2") {
		t.Error("Expected second client's request to be allowed")
	}
	if fw.Allow("10.0.0.1") {
		t.Error("Expected first client to be limited independently")
	}
}

func TestFixedWindowReset(t *testing.T) {
	fw := NewFixedWindow(1, time.Hour)

	fw.Allow("10.0.0.1")
	if fw.Allow("10.0.0.1") {
		t.Error("Expected request to be denied before reset")
	}

	fw.Reset()
	if !fw.Allow("10.0.0.1") {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestFixedWindowExpires(t *testing.T) {
	fw := NewFixedWindow(1, 50*time.Millisecond)

	if !fw.Allow("10.0.0.1") {
		t.Error("Expected first request to be allowed")
	}
	if fw.Allow("10.0.0.1") {
		t.Error("Expected second request in window to be denied")
	}

	// The window resets a full period after the first request in it
	time.Sleep(60 * time.Millisecond)
	if !fw.Allow("10.0.0.1") {
		t.Error("Expected request to be allowed after window expired")
	}
}
