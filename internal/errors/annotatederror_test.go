package errors_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/testhelpers"
)

var errInvalidProfile = errors.NewSentinel("invalid profile")

func TestAnnotatedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  errInvalidProfile,
			want: "invalid profile",
		},
		{
			name: "wrapped sentinel",
			err:  errors.Wrap(errInvalidProfile, "calculate metrics", slog.Float64("heightCm", 0)),
			want: "calculate metrics: invalid profile",
		},
		{
			name: "nested wrap",
			err: errors.Wrap(
				errors.Wrap(errInvalidProfile, "calculate metrics"),
				"generate plan",
			),
			want: "generate plan: calculate metrics: invalid profile",
		},
		{
			name: "new without cause",
			err:  errors.New("empty exercise catalog", slog.Int("userID", 1)),
			want: "empty exercise catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAndAs(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("select meal: %w", errInvalidProfile), "generate plan")
	if !errors.Is(wrapped, errInvalidProfile) {
		t.Error("Is() = false, want true for wrapped sentinel")
	}
	if errors.Is(wrapped, errors.NewSentinel("invalid profile")) {
		t.Error("Is() = true, want false for a distinct sentinel with the same message")
	}

	root := &catalogError{name: "exercises"}
	var target *catalogError
	if !errors.As(errors.Wrap(root, "fetch catalog"), &target) {
		t.Fatal("As() = false, want true")
	}
	if target != root {
		t.Errorf("As() target = %v, want %v", target, root)
	}
}

func TestSlogError(t *testing.T) {
	err := errors.Wrap(errInvalidProfile, "calculate metrics",
		slog.Float64("heightCm", 0), slog.Int("age", 30))
	var buf bytes.Buffer
	l := testhelpers.NewLogger(&buf)
	l.Info("test", errors.SlogError(err))
	logLine := buf.String()
	for _, content := range []string{
		"error.annotations.heightCm=0",
		"error.annotations.age=30",
		"annotatederror_test.go:",
	} {
		if !strings.Contains(logLine, content) {
			t.Errorf("expected log line %s to contain %s", logLine, content)
		}
	}
	if strings.Contains(logLine, "annotatederror.go") {
		t.Fatal("expected annotatederror.go NOT to be in log line")
	}

	// None of these may panic.
	errors.SlogError(errors.Join(nil, nil, errInvalidProfile, errors.New("test")))
	errors.SlogError(nil)
	errors.SlogError(errors.Join(errors.Wrap(errInvalidProfile, "a"), errors.Wrap(errInvalidProfile, "b")))
	errors.SlogError(errors.Wrap(nil, "wrap error"))
}

func TestDecoratePanic(t *testing.T) {
	defer func() {
		err := errors.DecoratePanic(recover())
		if err == nil {
			t.Fatal("expected error")
		}
		if got, want := err.Error(), "panic: selector"; got != want {
			t.Errorf("err.Error(): got %q, want %q", got, want)
		}
	}()
	panic("selector")
}

type catalogError struct {
	name string
}

func (e *catalogError) Error() string {
	return "catalog " + e.name
}
