package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     http.StatusBadRequest,
		KindConflict:       http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindAuthorization:  http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindUnavailable:    http.StatusServiceUnavailable,
		KindInternal:       http.StatusInternalServerError,
	}
	for kind, status := range cases {
		if kind.Status() != status {
			t.Fatalf("%s: expected %d, got %d", kind, status, kind.Status())
		}
	}
}

func TestFromWrapsUnclassified(t *testing.T) {
	cause := errors.New("boom")
	err := From(fmt.Errorf("query: %w", cause))
	if err.Kind != KindInternal || err.Code != "server_error" {
		t.Fatalf("unexpected classification %+v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestFromKeepsClassified(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	if !errors.Is(wrapped, ErrInvalidCredentials) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if KindOf(wrapped) != KindAuthentication {
		t.Fatalf("expected authentication kind, got %s", KindOf(wrapped))
	}
	if errors.Is(wrapped, ErrUnauthenticated) {
		t.Fatalf("different codes must not match")
	}
}
