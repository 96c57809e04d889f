package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
)

// ModalState is the picture-selection modal state.
type ModalState string

const (
	ModalClosed ModalState = "closed"
	ModalOpen   ModalState = "open"
)

// PickOptions configures the platform picker.
type PickOptions struct {
	AllowsEditing bool    `json:"allows_editing"`
	Quality       float64 `json:"quality"`
	AspectX       int     `json:"aspect_x"`
	AspectY       int     `json:"aspect_y"`
	// CameraFacing is "front" for camera captures and empty for the gallery.
	CameraFacing string `json:"camera_facing,omitempty"`
	// MediaType restricts the gallery to MediaTypeImages; the camera leaves it empty.
	MediaType string `json:"media_type,omitempty"`
}

// MediaTypeImages limits a gallery pick to still images.
const MediaTypeImages = "images"

// PickOptionsFor returns the square, full-quality, editable configuration for mode.
func PickOptionsFor(mode domain.PictureMode) PickOptions {
	opts := PickOptions{AllowsEditing: true, Quality: 1, AspectX: 1, AspectY: 1}
	switch mode {
	case domain.PictureModeCamera:
		opts.CameraFacing = "front"
	case domain.PictureModeGallery:
		opts.MediaType = MediaTypeImages
	}
	return opts
}

// PickResult is the outcome of one picker invocation.
type PickResult struct {
	Cancelled bool
	Locator   string
}

// PermissionRequester asks the platform for camera or media-library access.
type PermissionRequester interface {
	RequestPermission(ctx context.Context, mode domain.PictureMode) (bool, error)
}

// ImagePicker runs the platform camera or gallery picker.
type ImagePicker interface {
	PickImage(ctx context.Context, mode domain.PictureMode, opts PickOptions) (PickResult, error)
}

// MediaSource bundles the two capabilities one acquisition needs.
type MediaSource interface {
	PermissionRequester
	ImagePicker
}

// DatePicker runs the platform date widget. ok is false when the user dismissed it.
type DatePicker interface {
	PickDate(ctx context.Context) (date time.Time, ok bool, err error)
}

// acquire runs permission then picker. A cancelled pick returns ("", nil).
func acquire(ctx context.Context, src MediaSource, mode domain.PictureMode) (string, error) {
	if !mode.Valid() {
		return "", fmt.Errorf("acquire picture %q: %w", mode, domain.ErrInvalidMode)
	}

	granted, err := src.RequestPermission(ctx, mode)
	if err != nil {
		return "", fmt.Errorf("request %s permission: %w", mode, err)
	}
	if !granted {
		return "", fmt.Errorf("request %s permission: %w", mode, domain.ErrPermissionDenied)
	}

	result, err := src.PickImage(ctx, mode, PickOptionsFor(mode))
	if err != nil {
		return "", fmt.Errorf("pick image from %s: %w", mode, err)
	}
	if result.Cancelled {
		return "", nil
	}
	if result.Locator == "" {
		return "", fmt.Errorf("pick image from %s: %w", mode, domain.ErrEmptyLocator)
	}
	return result.Locator, nil
}
