package v1

import (
	"context"
	"errors"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/internal/core/repository/memory"
)

var errDiskFull = errors.New("disk full")

// flakyKV wraps the memory store and fails reads or writes on demand.
type flakyKV struct {
	*memory.Store
	failGet error
	failSet error
	sets    int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Store: memory.New()}
}

func (k *flakyKV) Get(ctx context.Context, key string) (string, error) {
	if k.failGet != nil {
		return "", k.failGet
	}
	return k.Store.Get(ctx, key)
}

func (k *flakyKV) Set(ctx context.Context, key, value string) error {
	if k.failSet != nil {
		return k.failSet
	}
	k.sets++
	return k.Store.Set(ctx, key, value)
}

// fakeMedia returns a fixed permission answer and pick result.
type fakeMedia struct {
	granted     bool
	permErr     error
	result      PickResult
	pickErr     error
	pickedMode  domain.PictureMode
	pickedOpts  PickOptions
	pickCalls   int
	permissions []domain.PictureMode
}

func (m *fakeMedia) RequestPermission(_ context.Context, mode domain.PictureMode) (bool, error) {
	m.permissions = append(m.permissions, mode)
	return m.granted, m.permErr
}

func (m *fakeMedia) PickImage(_ context.Context, mode domain.PictureMode, opts PickOptions) (PickResult, error) {
	m.pickCalls++
	m.pickedMode = mode
	m.pickedOpts = opts
	return m.result, m.pickErr
}

// fakeDatePicker returns a fixed date, a dismissal, or an error.
type fakeDatePicker struct {
	date time.Time
	ok   bool
	err  error
}

func (p fakeDatePicker) PickDate(context.Context) (time.Time, bool, error) {
	return p.date, p.ok, p.err
}
