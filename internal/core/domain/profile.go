package domain

// ProfileRecord is the user's editable identity information.
// It is always stored and replaced as a whole.
type ProfileRecord struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"DOB"`
	Nationality string `json:"nationality"`
	Bio         string `json:"bio"`
}

// ProfilePicture references image data by an opaque platform locator.
// An empty Locator means the built-in placeholder image is shown.
type ProfilePicture struct {
	Locator string `json:"locator,omitempty"`
}

// Present reports whether a picture was ever saved.
func (p ProfilePicture) Present() bool {
	return p.Locator != ""
}

// PictureMode selects where a new picture comes from.
type PictureMode string

const (
	PictureModeCamera  PictureMode = "camera"
	PictureModeGallery PictureMode = "gallery"
)

// Valid reports whether m is a known acquisition mode.
func (m PictureMode) Valid() bool {
	return m == PictureModeCamera || m == PictureModeGallery
}

// Storage keys for the two independent records.
const (
	ProfileRecordKey  = "@user"
	ProfilePictureKey = "@pfp"
)
