package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "ticket not found",
			},
			want: "ticket not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeDecode,
				Message: "decode employee list",
				Cause:   errors.New("unexpected end of JSON input"),
			},
			want: "decode employee list: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestValidation_JoinsIssues(t *testing.T) {
	err := Validation([]string{"First name is required", "Last name is required"})
	if err.Code != ErrCodeValidation {
		t.Errorf("Validation().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	want := "First name is required; Last name is required"
	if err.Message != want {
		t.Errorf("Validation().Message = %q, want %q", err.Message, want)
	}
	if len(err.Issues) != 2 {
		t.Errorf("Validation().Issues len = %d, want 2", len(err.Issues))
	}
}

func TestHTTPStatus_CarriesStatus(t *testing.T) {
	err := HTTPStatus(503, "backend unavailable")
	if !IsHTTPStatus(err) {
		t.Error("IsHTTPStatus() = false, want true")
	}
	if got := GetStatus(err); got != 503 {
		t.Errorf("GetStatus() = %d, want 503", got)
	}
}

func TestHTTPStatus_SurvivesWrapping(t *testing.T) {
	inner := HTTPStatus(404, "no such employee")
	outer := fmt.Errorf("load employees: %w", inner)

	if !IsHTTPStatus(outer) {
		t.Error("IsHTTPStatus(wrapped) = false, want true")
	}
	if got := GetStatus(outer); got != 404 {
		t.Errorf("GetStatus(wrapped) = %d, want 404", got)
	}
}

func TestIsCanceled(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"tagged cancellation", Canceled(context.Canceled), true},
		{"raw context.Canceled", context.Canceled, true},
		{"wrapped context.Canceled", fmt.Errorf("fetch devices: %w", context.Canceled), true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"http failure", HTTPStatus(500, "boom"), false},
		{"nil-adjacent plain error", errors.New("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanceled(tt.err); got != tt.want {
				t.Errorf("IsCanceled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetIssues(t *testing.T) {
	issues := []string{"Subject is required"}
	err := fmt.Errorf("create ticket: %w", Validation(issues))

	got := GetIssues(err)
	if len(got) != 1 || got[0] != "Subject is required" {
		t.Errorf("GetIssues() = %v, want %v", got, issues)
	}

	if GetIssues(errors.New("plain")) != nil {
		t.Error("GetIssues(plain error) != nil")
	}
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Unauthorized("session rejected")); got != ErrCodeUnauthorized {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeUnauthorized)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}
