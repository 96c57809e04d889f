package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProfileStore persists the profile record and the picture locator under two independent keys.
type ProfileStore struct {
	kv     domain.KeyValueStore
	logger *zap.Logger
}

// NewProfileStore creates a profile store over kv
func NewProfileStore(kv domain.KeyValueStore, logger *zap.Logger) *ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileStore{kv: kv, logger: logger}
}

// LoadProfile returns the stored record, or the all-empty record when nothing
// usable is stored. Read and decode failures are logged, never returned.
func (s *ProfileStore) LoadProfile(ctx context.Context) domain.ProfileRecord {
	ctx, span := middleware.StartSpan(ctx, "profile.load", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	raw, err := s.kv.Get(ctx, domain.ProfileRecordKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			span.RecordError(err)
			s.logger.Warn("Failed to read profile record, using defaults", zap.Error(err))
		}
		span.SetAttributes(attribute.Bool("profile.found", false))
		return domain.ProfileRecord{}
	}

	var record domain.ProfileRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		span.RecordError(err)
		s.logger.Warn("Stored profile record is malformed, using defaults", zap.Error(err))
		span.SetAttributes(attribute.Bool("profile.found", false))
		return domain.ProfileRecord{}
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return record
}

// SaveProfile overwrites the whole stored record
func (s *ProfileStore) SaveProfile(ctx context.Context, record domain.ProfileRecord) error {
	ctx, span := middleware.StartSpan(ctx, "profile.save", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	payload, err := json.Marshal(record)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal profile record: %w", err)
	}
	if err := s.kv.Set(ctx, domain.ProfileRecordKey, string(payload)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save profile record: %w", err)
	}
	return nil
}

// LoadPicture returns the stored picture, absent on a missing key or read failure
func (s *ProfileStore) LoadPicture(ctx context.Context) domain.ProfilePicture {
	ctx, span := middleware.StartSpan(ctx, "picture.load", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	locator, err := s.kv.Get(ctx, domain.ProfilePictureKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			span.RecordError(err)
			s.logger.Warn("Failed to read profile picture, using placeholder", zap.Error(err))
		}
		return domain.ProfilePicture{}
	}
	return domain.ProfilePicture{Locator: locator}
}

// SavePicture overwrites the stored locator
func (s *ProfileStore) SavePicture(ctx context.Context, locator string) error {
	ctx, span := middleware.StartSpan(ctx, "picture.save", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if locator == "" {
		return domain.ErrEmptyLocator
	}
	if err := s.kv.Set(ctx, domain.ProfilePictureKey, locator); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save profile picture: %w", err)
	}
	return nil
}
