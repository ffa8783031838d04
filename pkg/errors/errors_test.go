package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfig, "problem with %q file", "colors")

	if err.Code != ErrCodeConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfig)
	}

	if err.Message != `problem with "colors" file` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `CONFIG: problem with "colors" file`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeOutputWrite, cause, "write out_svg.py")

	if err.Code != ErrCodeOutputWrite {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOutputWrite)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "OUTPUT_WRITE: write out_svg.py: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInputEncoding, "test"),
			code:     ErrCodeInputEncoding,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInputEncoding, "test"),
			code:     ErrCodeConfig,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("style: %w", New(ErrCodeConfig, "test")),
			code:     ErrCodeConfig,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeConfig,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeSchemaRender, "x")); got != ErrCodeSchemaRender {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeSchemaRender)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeConfig, "bad colors")); got != "bad colors" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad colors")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}

func TestCodeFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInputEncoding, true},
		{ErrCodeConfig, true},
		{ErrCodeSchemaRender, true},
		{ErrCodeOutputWrite, true},
		{ErrCodeTemplateLoad, false},
	}
	for _, tt := range tests {
		if got := tt.code.Fatal(); got != tt.want {
			t.Errorf("%s.Fatal() = %v, want %v", tt.code, got, tt.want)
		}
	}
}
