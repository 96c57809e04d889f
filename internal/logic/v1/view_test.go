package v1

import (
	"testing"

	"github.com/duynhne/profile-editor/internal/core/domain"
)

func TestDisplayPlaceholders(t *testing.T) {
	view := Display(domain.ProfileRecord{}, domain.ProfilePicture{})
	want := ProfileView{
		Name:            PlaceholderName,
		DateOfBirth:     PlaceholderDateOfBirth,
		Nationality:     PlaceholderNationality,
		Bio:             PlaceholderBio,
		UsesPlaceholder: true,
	}
	if view != want {
		t.Fatalf("view = %+v, want %+v", view, want)
	}
}

func TestDisplayValues(t *testing.T) {
	record := domain.ProfileRecord{FirstName: "A", DateOfBirth: "1/2/2000", Nationality: "N", Bio: "b"}
	view := Display(record, domain.ProfilePicture{Locator: "file://x.png"})

	if view.Name != "A " {
		t.Fatalf("name = %q, want first name followed by a space", view.Name)
	}
	if view.DateOfBirth != "1/2/2000" || view.Nationality != "N" || view.Bio != "b" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.UsesPlaceholder || view.PictureLocator != "file://x.png" {
		t.Fatalf("picture fields = %+v", view)
	}
}
