package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitIsSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	first := Init(Options{Level: "debug", Output: &buf})
	second := Init(Options{Level: "error", Output: &bytes.Buffer{}})

	if first.GetLevel() != second.GetLevel() {
		t.Fatalf("second Init must not reconfigure the logger")
	}

	log := Get()
	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"hello"`) {
		t.Fatalf("log line not written to the first writer: %q", buf.String())
	}
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("Get before Init must panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"  Info ", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRequestIDUnique(t *testing.T) {
	if NewRequestID() == NewRequestID() {
		t.Fatalf("request ids must be unique")
	}
}
