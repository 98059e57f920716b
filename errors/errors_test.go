package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppErrorFormat(t *testing.T) {
	err := ErrInvalidInput("vtt_content is required")
	msg := err.Error()
	if !strings.Contains(msg, "INVALID_INPUT") {
		t.Fatalf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "vtt_content is required") {
		t.Fatalf("expected message text, got %q", msg)
	}
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ErrInternal(cause)
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected cause in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected errors.Is to find wrapped cause")
	}
}

func TestWithDetail(t *testing.T) {
	err := ErrParseFailed(fmt.Errorf("bad cue"), "meeting.vtt")
	if err.Details["filename"] != "meeting.vtt" {
		t.Fatalf("expected filename detail, got %v", err.Details)
	}
	err = err.WithDetail("line", "12")
	if err.Details["line"] != "12" {
		t.Fatalf("expected line detail, got %v", err.Details)
	}
}

func TestErrorCodesAndHTTPStatus(t *testing.T) {
	cases := []struct {
		err      AppError
		code     ErrorCode
		httpCode int
	}{
		{ErrInvalidInput("x"), ErrorCode_INVALID_INPUT, http.StatusBadRequest},
		{ErrParseFailed(nil, "a.vtt"), ErrorCode_PARSE_ERROR, http.StatusBadRequest},
		{ErrInternal(nil), ErrorCode_INTERNAL, http.StatusInternalServerError},
		{ErrResourceNotFound("Snapshot"), ErrorCode_RESOURCE_NOT_FOUND, http.StatusNotFound},
		{ErrLLMRateLimited(nil), ErrorCode_RATE_LIMIT, http.StatusTooManyRequests},
		{ErrLLMTimeout(nil), ErrorCode_TIMEOUT, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
		}
		if tc.err.HTTPCode != tc.httpCode {
			t.Errorf("%s: expected HTTP %d, got %d", tc.code, tc.httpCode, tc.err.HTTPCode)
		}
	}
}

func TestAppErrorAs(t *testing.T) {
	var wrapped error = fmt.Errorf("stage failed: %w", ErrSnapshotFailed(fmt.Errorf("llm down"), "m.vtt"))
	var appErr AppError
	if !stderrors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to extract AppError")
	}
	if appErr.Code != ErrorCode_INTERNAL {
		t.Fatalf("expected INTERNAL_ERROR, got %s", appErr.Code)
	}
}
