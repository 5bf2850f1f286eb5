package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfigureIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	Configure(Config{Level: "error"}) // second call must be a no-op

	logger := WithComponent("test")
	logger.Debug().Msg("visible at debug level")

	out := buf.String()
	if !strings.Contains(out, "visible at debug level") {
		t.Fatalf("expected debug output, got %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Fatalf("expected component field, got %q", out)
	}
}
