package v1

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EditorState is a read-only copy of everything the screen shows.
type EditorState struct {
	Record         domain.ProfileRecord  `json:"record"`
	Picture        domain.ProfilePicture `json:"picture"`
	View           ProfileView           `json:"view"`
	Session        SessionState          `json:"session"`
	Draft          *Draft                `json:"draft,omitempty"`
	DatePickerOpen bool                  `json:"date_picker_open"`
	PictureModal   ModalState            `json:"picture_modal"`
}

// PictureOutcome reports what an acquisition did.
type PictureOutcome struct {
	Cancelled bool   `json:"cancelled"`
	Locator   string `json:"locator,omitempty"`
}

// Editor owns the displayed snapshot, the edit session and the picture modal.
// All transitions are serialized; store and picker calls block the caller.
type Editor struct {
	mu     sync.Mutex
	store  *ProfileStore
	dates  *DateFormatter
	alerts *AlertQueue
	logger *zap.Logger

	snapshot domain.ProfileRecord
	picture  domain.ProfilePicture
	session  EditSession
	modal    ModalState
}

// NewEditor creates an editor in Viewing with the picture modal closed.
// Call Start to load the persisted records.
func NewEditor(store *ProfileStore, dates *DateFormatter, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dates == nil {
		dates = NewDateFormatter("")
	}
	return &Editor{
		store:  store,
		dates:  dates,
		alerts: &AlertQueue{},
		logger: logger,
		modal:  ModalClosed,
	}
}

// Start loads the profile record and picture into the displayed snapshot.
func (e *Editor) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshot = e.store.LoadProfile(ctx)
	e.picture = e.store.LoadPicture(ctx)
	e.logger.Info("Profile loaded",
		zap.Bool("has_name", e.snapshot.FirstName != "" || e.snapshot.LastName != ""),
		zap.Bool("has_picture", e.picture.Present()),
	)
}

// Alerts returns the user-visible error channel.
func (e *Editor) Alerts() *AlertQueue {
	return e.alerts
}

// State returns a copy of the current screen state.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() EditorState {
	state := EditorState{
		Record:         e.snapshot,
		Picture:        e.picture,
		View:           Display(e.snapshot, e.picture),
		Session:        e.session.State(),
		DatePickerOpen: e.session.DatePickerOpen(),
		PictureModal:   e.modal,
	}
	if draft, ok := e.session.Draft(); ok {
		state.Draft = &draft
	}
	return state
}

// BeginEdit opens the edit form seeded from the displayed snapshot.
func (e *Editor) BeginEdit() (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Begin(e.snapshot); err != nil {
		return e.stateLocked(), err
	}
	return e.stateLocked(), nil
}

// UpdateDraft applies typed edits to the open form.
func (e *Editor) UpdateDraft(patch DraftPatch) (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.session.Apply(patch)
	return e.stateLocked(), err
}

// ShowDatePicker switches date-of-birth entry to the picker.
func (e *Editor) ShowDatePicker() (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.session.ShowDatePicker()
	return e.stateLocked(), err
}

// PickDateOfBirth runs the date picker. A confirmed date replaces the DOB draft
// with its locale-formatted form; a dismissed picker leaves the draft unchanged.
// Either way the picker is hidden afterwards, except when the date is rejected.
func (e *Editor) PickDateOfBirth(ctx context.Context, picker DatePicker) (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.DatePickerOpen() {
		return e.stateLocked(), fmt.Errorf("pick date of birth: date picker is not shown: %w", domain.ErrInvalidTransition)
	}

	date, ok, err := picker.PickDate(ctx)
	if err != nil {
		e.session.HideDatePicker()
		e.logger.Warn("Date picker failed", zap.Error(err))
		e.alerts.Alert(alertDatePickerFailed)
		return e.stateLocked(), fmt.Errorf("pick date of birth: %w", err)
	}
	if !ok {
		e.session.HideDatePicker()
		return e.stateLocked(), nil
	}

	formatted, err := e.dates.Format(date)
	if err != nil {
		return e.stateLocked(), err
	}
	if err := e.session.SetPickedDate(formatted); err != nil {
		return e.stateLocked(), err
	}
	return e.stateLocked(), nil
}

// HideDatePicker returns date-of-birth entry to text without changing the draft.
func (e *Editor) HideDatePicker() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.HideDatePicker()
	return e.stateLocked()
}

// Save persists the merged draft and, only once the store confirms, replaces
// the displayed snapshot. On a store failure the previous snapshot stays
// displayed, the failure is alerted, and the editor still returns to Viewing.
func (e *Editor) Save(ctx context.Context) (EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := middleware.StartSpan(ctx, "editor.save", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	merged, err := e.session.Merged()
	if err != nil {
		return e.stateLocked(), err
	}

	if err := e.store.SaveProfile(ctx, merged); err != nil {
		middleware.RecordError(ctx, err)
		e.logger.Error("Failed to save profile", zap.Error(err))
		e.alerts.Alert(alertProfileSaveFailed)
		e.session.End()
		return e.stateLocked(), err
	}

	e.snapshot = merged
	e.session.End()
	middleware.AddSpanAttributes(ctx, attribute.Bool("profile.saved", true))
	return e.stateLocked(), nil
}

// Cancel discards the draft. Cancelling while viewing is a no-op.
func (e *Editor) Cancel() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.End()
	return e.stateLocked()
}

// OpenPicture opens the picture-selection modal.
func (e *Editor) OpenPicture() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modal = ModalOpen
	return e.stateLocked()
}

// ClosePicture closes the picture-selection modal without changing the picture.
func (e *Editor) ClosePicture() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modal = ModalClosed
	return e.stateLocked()
}

// AcquirePicture runs permission, picker and save for mode.
// Success persists the locator and closes the modal. A cancelled pick changes
// nothing. Any failure is alerted and closes the modal without persisting.
func (e *Editor) AcquirePicture(ctx context.Context, mode domain.PictureMode, src MediaSource) (PictureOutcome, EditorState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := middleware.StartSpan(ctx, "editor.acquire_picture", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("picture.mode", string(mode)),
	))
	defer span.End()

	if e.modal != ModalOpen {
		return PictureOutcome{}, e.stateLocked(), fmt.Errorf("acquire picture: modal is closed: %w", domain.ErrInvalidTransition)
	}

	locator, err := acquire(ctx, src, mode)
	if err != nil {
		return PictureOutcome{}, e.failAcquisitionLocked(ctx, mode, alertMessage(err), err), err
	}
	if locator == "" {
		middleware.AddSpanAttributes(ctx, attribute.Bool("picture.cancelled", true))
		return PictureOutcome{Cancelled: true}, e.stateLocked(), nil
	}
	if err := e.store.SavePicture(ctx, locator); err != nil {
		return PictureOutcome{}, e.failAcquisitionLocked(ctx, mode, alertPictureSaveFailed, err), err
	}

	e.picture = domain.ProfilePicture{Locator: locator}
	e.modal = ModalClosed
	return PictureOutcome{Locator: locator}, e.stateLocked(), nil
}

func (e *Editor) failAcquisitionLocked(ctx context.Context, mode domain.PictureMode, alert string, err error) EditorState {
	middleware.RecordError(ctx, err)
	e.logger.Warn("Picture acquisition failed", zap.String("mode", string(mode)), zap.Error(err))
	e.alerts.Alert(alert)
	e.modal = ModalClosed
	return e.stateLocked()
}

// User-facing alert texts. Error chains stay in the logs.
const (
	alertProfileSaveFailed = "Could not save your profile. Please try again."
	alertPictureSaveFailed = "Could not save your profile picture. Please try again."
	alertPictureFailed     = "Could not get a picture. Please try again."
	alertPermissionDenied  = "Permission is required to choose a profile picture."
	alertInvalidMode       = "Unknown picture source."
	alertDatePickerFailed  = "Could not read the selected date. Please try again."
)

func alertMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return alertPermissionDenied
	case errors.Is(err, domain.ErrInvalidMode):
		return alertInvalidMode
	default:
		return alertPictureFailed
	}
}
