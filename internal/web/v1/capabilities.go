package v1

import (
	"context"
	"errors"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
	logicv1 "github.com/duynhne/profile-editor/internal/logic/v1"
)

// clientError carries a failure the device reported for a capability it ran.
type clientError struct {
	msg string
}

func (e *clientError) Error() string { return e.msg }

func isClientError(err error) bool {
	var ce *clientError
	return errors.As(err, &ce)
}

// acquireRequest is the outcome of a permission prompt and picker run on the device.
type acquireRequest struct {
	Mode              string `json:"mode" binding:"required"`
	PermissionGranted bool   `json:"permission_granted"`
	Cancelled         bool   `json:"cancelled"`
	Locator           string `json:"locator"`
	Error             string `json:"error"`
}

// clientMedia replays an acquireRequest as a MediaSource and records the
// options the editor asked for so the client can check them.
type clientMedia struct {
	req     acquireRequest
	options logicv1.PickOptions
}

func (m *clientMedia) RequestPermission(context.Context, domain.PictureMode) (bool, error) {
	return m.req.PermissionGranted, nil
}

func (m *clientMedia) PickImage(_ context.Context, _ domain.PictureMode, opts logicv1.PickOptions) (logicv1.PickResult, error) {
	m.options = opts
	if m.req.Error != "" {
		return logicv1.PickResult{}, &clientError{msg: m.req.Error}
	}
	return logicv1.PickResult{Cancelled: m.req.Cancelled, Locator: m.req.Locator}, nil
}

// dateRequest is the outcome of the device date picker.
type dateRequest struct {
	Date      string `json:"date"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error"`
}

// clientDatePicker replays a dateRequest as a DatePicker.
type clientDatePicker struct {
	date      time.Time
	cancelled bool
	err       error
}

func newClientDatePicker(req dateRequest) (clientDatePicker, error) {
	if req.Error != "" {
		return clientDatePicker{err: &clientError{msg: req.Error}}, nil
	}
	if req.Cancelled {
		return clientDatePicker{cancelled: true}, nil
	}
	date, err := parseBirthDate(req.Date)
	if err != nil {
		return clientDatePicker{}, err
	}
	return clientDatePicker{date: date}, nil
}

func (p clientDatePicker) PickDate(context.Context) (time.Time, bool, error) {
	if p.err != nil {
		return time.Time{}, false, p.err
	}
	return p.date, !p.cancelled, nil
}
