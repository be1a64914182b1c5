package logger

import (
	"bytes"
	"os"
	"testing"
)

// capture redirects stdout for the duration of fn and returns what was written.
func capture(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestLevels(t *testing.T) {
	out := capture(t, func() {
		Info("Catalog", "loading")
		Success("Catalog", "loaded")
		Warn("Market", "stale prices")
		Error("Update", "pass failed")
	})
	for _, want := range []string{"[Catalog]", "[Market]", "[Update]", "loading", "stale prices"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBanner(t *testing.T) {
	out := capture(t, func() {
		Banner("v1.0.0")
	})
	if !bytes.Contains([]byte(out), []byte("v1.0.0")) {
		t.Errorf("banner missing version:\n%s", out)
	}

	out = capture(t, func() {
		Banner("")
	})
	if !bytes.Contains([]byte(out), []byte("dev")) {
		t.Errorf("empty version should render as dev:\n%s", out)
	}
}

func TestServer(t *testing.T) {
	out := capture(t, func() {
		Server("127.0.0.1:13380")
	})
	if !bytes.Contains([]byte(out), []byte("http://127.0.0.1:13380")) {
		t.Errorf("server line missing address:\n%s", out)
	}
}

func TestSectionAndStats(t *testing.T) {
	out := capture(t, func() {
		Section("Catalog")
		Stats("Items", 1842)
		Stats("Categories", 12)
	})
	for _, want := range []string{"Catalog", "Items", "1842"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
