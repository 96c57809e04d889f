package v1

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
)

// birthDateLayout is the wire format of dates confirmed by the client's picker.
const birthDateLayout = "2006-01-02"

var errMissingDate = errors.New("date is required unless the picker was cancelled")

// sanitizeValidationError returns a client-safe message for binding and parse errors.
// Raw decoder output leaks struct and field names, so it collapses to a generic message.
func sanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.Contains(msg, "validation") ||
		strings.Contains(msg, "cannot unmarshal") ||
		strings.Contains(msg, "parsing time") ||
		strings.Contains(msg, "bind") ||
		strings.Contains(msg, "Key:") ||
		strings.Contains(msg, "EOF") {
		return "Invalid request"
	}
	if len(msg) < 100 && !strings.Contains(msg, "Error:") {
		return msg
	}
	return "Invalid request"
}

// parseBirthDate reads a YYYY-MM-DD calendar date. The zone carries no meaning;
// the formatter compares calendar days only.
func parseBirthDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errMissingDate
	}
	date, err := time.Parse(birthDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return date, nil
}

// normalizePictureMode lower-cases and trims a client mode name.
// Validity is left to the editor so an unknown mode is alerted like any other acquisition failure.
func normalizePictureMode(value string) domain.PictureMode {
	return domain.PictureMode(strings.ToLower(strings.TrimSpace(value)))
}
