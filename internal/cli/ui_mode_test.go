package cli

import (
	"bytes"
	"io"
	"testing"
)

func withTerminal(t *testing.T, value bool) {
	t.Helper()
	original := isTerminal
	isTerminal = func(io.Writer) bool { return value }
	t.Cleanup(func() { isTerminal = original })
}

func TestResolveUIModeAuto(t *testing.T) {
	withTerminal(t, true)
	decision, err := resolveUIMode("auto", false, &bytes.Buffer{})
	if err != nil || !decision.useLive {
		t.Fatalf("decision=%+v err=%v", decision, err)
	}

	withTerminal(t, false)
	decision, err = resolveUIMode("auto", false, &bytes.Buffer{})
	if err != nil || decision.useLive {
		t.Fatalf("decision=%+v err=%v", decision, err)
	}
}

func TestResolveUIModeLiveWithoutTTYWarns(t *testing.T) {
	withTerminal(t, false)
	decision, err := resolveUIMode("live", false, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if decision.useLive || decision.warning == "" {
		t.Fatalf("decision=%+v", decision)
	}
}

func TestResolveUIModeVerboseForcesPlain(t *testing.T) {
	withTerminal(t, true)
	decision, err := resolveUIMode("live", true, &bytes.Buffer{})
	if err != nil || decision.useLive {
		t.Fatalf("decision=%+v err=%v", decision, err)
	}
}

func TestResolveUIModeRejectsUnknown(t *testing.T) {
	if _, err := resolveUIMode("fancy", false, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}
