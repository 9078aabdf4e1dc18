package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for user-supplied display strings.
const (
	MaxDeviceNameLength = 64
	MaxTitleLength      = 200
)

// ValidateDeviceName validates a device display name.
// Names need not be unique, but they must be printable since they end up
// in tick labels and the legend:
//   - No empty names
//   - No control characters
//   - Maximum length of MaxDeviceNameLength runes
func ValidateDeviceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "device name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxDeviceNameLength {
		return New(ErrCodeInvalidInput, "device name %q too long (max %d characters)", name, MaxDeviceNameLength)
	}
	if hasControl(name) {
		return New(ErrCodeInvalidInput, "device name %q contains invalid control characters", name)
	}
	return nil
}

// ValidateTitle validates a diagram title. An empty title is allowed.
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}
	if hasControl(title) {
		return New(ErrCodeInvalidInput, "title contains invalid control characters")
	}
	return nil
}

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if hasControl(path) {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if r == '\x00' || unicode.IsControl(r) {
			return true
		}
	}
	return false
}
