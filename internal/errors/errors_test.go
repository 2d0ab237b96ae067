package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if Wrap(Internal, "op", "", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestKindOfFindsWrappedAppError(t *testing.T) {
	inner := Wrap(TransferFailure, "fetch", "a.bin", errors.New("reset"))
	outer := fmt.Errorf("run: %w", inner)
	if got := KindOf(outer); got != TransferFailure {
		t.Fatalf("expected %q, got %q", TransferFailure, got)
	}
	if got := KindOf(errors.New("plain")); got != Internal {
		t.Fatalf("expected internal for plain error, got %q", got)
	}
}

func TestUserMessageMalformedManifest(t *testing.T) {
	err := Wrap(MalformedManifest, "load", "index.csv", errors.New("line 3: expected 4 fields, got 2"))
	msg := UserMessage(err)
	if !strings.Contains(msg, "index.csv") || !strings.Contains(msg, "line 3") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := Wrap(Canceled, "run", "", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestUserMessageIOFailureKeepsCause(t *testing.T) {
	err := Wrap(IOFailure, "load", "index.csv", errors.New("bufio.Scanner: token too long"))
	msg := UserMessage(err)
	if !strings.Contains(msg, "index.csv") || !strings.Contains(msg, "token too long") {
		t.Fatalf("unexpected message %q", msg)
	}
}
