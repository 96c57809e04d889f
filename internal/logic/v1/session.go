package v1

import (
	"fmt"

	"github.com/duynhne/profile-editor/internal/core/domain"
)

// SessionState is the outer state of the edit form.
type SessionState string

const (
	StateViewing SessionState = "viewing"
	StateEditing SessionState = "editing"
)

// Draft holds uncommitted values for the five profile fields.
type Draft struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"DOB"`
	Nationality string `json:"nationality"`
	Bio         string `json:"bio"`
}

// DraftPatch changes only the non-nil fields of a draft.
type DraftPatch struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	DateOfBirth *string `json:"DOB,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// EditSession is the Viewing/Editing state machine. The zero value is Viewing.
type EditSession struct {
	state          SessionState
	draft          Draft
	datePickerOpen bool
}

// State returns the current outer state.
func (s *EditSession) State() SessionState {
	if s.state == "" {
		return StateViewing
	}
	return s.state
}

// Editing reports whether a draft is in progress.
func (s *EditSession) Editing() bool {
	return s.State() == StateEditing
}

// Draft returns a copy of the current draft and whether one exists.
func (s *EditSession) Draft() (Draft, bool) {
	return s.draft, s.Editing()
}

// DatePickerOpen reports the date-of-birth sub-state.
func (s *EditSession) DatePickerOpen() bool {
	return s.Editing() && s.datePickerOpen
}

// Begin enters Editing with drafts seeded from the displayed snapshot.
func (s *EditSession) Begin(snapshot domain.ProfileRecord) error {
	if s.Editing() {
		return fmt.Errorf("begin edit: already editing: %w", domain.ErrInvalidTransition)
	}
	s.state = StateEditing
	s.draft = Draft(snapshot)
	s.datePickerOpen = false
	return nil
}

// Apply writes the set fields of patch into the draft.
func (s *EditSession) Apply(patch DraftPatch) error {
	if !s.Editing() {
		return fmt.Errorf("update draft: not editing: %w", domain.ErrInvalidTransition)
	}
	if patch.FirstName != nil {
		s.draft.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.draft.LastName = *patch.LastName
	}
	if patch.DateOfBirth != nil {
		s.draft.DateOfBirth = *patch.DateOfBirth
	}
	if patch.Nationality != nil {
		s.draft.Nationality = *patch.Nationality
	}
	if patch.Bio != nil {
		s.draft.Bio = *patch.Bio
	}
	return nil
}

// ShowDatePicker switches date-of-birth entry to the picker widget.
func (s *EditSession) ShowDatePicker() error {
	if !s.Editing() {
		return fmt.Errorf("show date picker: not editing: %w", domain.ErrInvalidTransition)
	}
	s.datePickerOpen = true
	return nil
}

// HideDatePicker returns to text entry without touching the draft.
func (s *EditSession) HideDatePicker() {
	s.datePickerOpen = false
}

// SetPickedDate stores a formatted picker value and hides the picker.
func (s *EditSession) SetPickedDate(formatted string) error {
	if !s.DatePickerOpen() {
		return fmt.Errorf("set picked date: date picker is not shown: %w", domain.ErrInvalidTransition)
	}
	s.draft.DateOfBirth = formatted
	s.datePickerOpen = false
	return nil
}

// Merged returns the record a save would persist.
func (s *EditSession) Merged() (domain.ProfileRecord, error) {
	if !s.Editing() {
		return domain.ProfileRecord{}, fmt.Errorf("save: not editing: %w", domain.ErrInvalidTransition)
	}
	return domain.ProfileRecord(s.draft), nil
}

// End discards the draft and returns to Viewing. It serves both Save (after
// the merged record is persisted) and Cancel.
func (s *EditSession) End() {
	s.state = StateViewing
	s.draft = Draft{}
	s.datePickerOpen = false
}
