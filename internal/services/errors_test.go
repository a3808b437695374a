package services_test

import (
	"errors"
	"strings"
	"testing"

	"cutout/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrExternalAPI, "removal", "request", "upstream unavailable", base)
	if !errors.Is(err, services.ErrExternalAPI) {
		t.Fatalf("expected external api marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "removal: request: upstream unavailable") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect bool
	}{
		{"timeout", services.Wrap(services.ErrTimeout, "removal", "request", "deadline", nil), true},
		{"external", services.Wrap(services.ErrExternalAPI, "removal", "request", "502", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "removal", "read", "io", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "ingest", "decode", "bad image", nil), false},
		{"configuration", services.Wrap(services.ErrConfiguration, "removal", "client", "missing key", nil), false},
		{"not found", services.Wrap(services.ErrNotFound, "export", "item", "gone", nil), false},
	}
	for _, tc := range cases {
		if got := services.IsRetryable(tc.err); got != tc.expect {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.expect)
		}
	}
}
