package v1

import "github.com/duynhne/profile-editor/internal/core/domain"

// Placeholders shown for empty fields.
const (
	PlaceholderName        = "Sample name"
	PlaceholderDateOfBirth = "00/00/00"
	PlaceholderNationality = "Sample Nationality"
	PlaceholderBio         = "Sample bio"
)

// ProfileView is what the profile screen renders.
type ProfileView struct {
	Name            string `json:"name"`
	DateOfBirth     string `json:"date_of_birth"`
	Nationality     string `json:"nationality"`
	Bio             string `json:"bio"`
	PictureLocator  string `json:"picture_locator,omitempty"`
	UsesPlaceholder bool   `json:"uses_placeholder_picture"`
}

// Display fills empty fields with placeholders.
func Display(record domain.ProfileRecord, picture domain.ProfilePicture) ProfileView {
	view := ProfileView{
		Name:            record.FirstName + " " + record.LastName,
		DateOfBirth:     orPlaceholder(record.DateOfBirth, PlaceholderDateOfBirth),
		Nationality:     orPlaceholder(record.Nationality, PlaceholderNationality),
		Bio:             orPlaceholder(record.Bio, PlaceholderBio),
		PictureLocator:  picture.Locator,
		UsesPlaceholder: !picture.Present(),
	}
	if record.FirstName == "" && record.LastName == "" {
		view.Name = PlaceholderName
	}
	return view
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
