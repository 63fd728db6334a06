package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewPrefix(t *testing.T) {
	var buf bytes.Buffer

	logger := New("sync", &buf)
	logger.Println("hello")

	if !strings.HasPrefix(buf.String(), "[sync] ") {
		t.Errorf("expected [sync] prefix, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestNewNilWriterDefaultsToStderr(t *testing.T) {
	logger := New("sync", nil)
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
}
