package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/internal/core/repository/memory"
	logicv1 "github.com/duynhne/profile-editor/internal/logic/v1"
	"github.com/gin-gonic/gin"
)

type testServer struct {
	router *gin.Engine
	store  *logicv1.ProfileStore
}

// brokenKV fails writes once failSet is set.
type brokenKV struct {
	*memory.Store
	failSet error
}

func (k *brokenKV) Set(ctx context.Context, key, value string) error {
	if k.failSet != nil {
		return k.failSet
	}
	return k.Store.Set(ctx, key, value)
}

func newTestServer(t *testing.T, seed func(*logicv1.ProfileStore)) *testServer {
	t.Helper()
	return newTestServerWithKV(t, memory.New(), seed)
}

func newTestServerWithKV(t *testing.T, kv domain.KeyValueStore, seed func(*logicv1.ProfileStore)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := logicv1.NewProfileStore(kv, nil)
	if seed != nil {
		seed(store)
	}
	editor := logicv1.NewEditor(store, logicv1.NewDateFormatter("en-US"), nil)
	editor.Start(context.Background())

	r := gin.New()
	NewProfileHandler(editor, nil).RegisterRoutes(r.Group("/api/v1"))
	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) acquireResponse {
	t.Helper()
	var resp acquireResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

type errorBody struct {
	Error string        `json:"error"`
	State stateResponse `json:"state"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGetProfilePlaceholders(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeState(t, rec)
	if resp.View.Name != logicv1.PlaceholderName || resp.View.Bio != logicv1.PlaceholderBio {
		t.Fatalf("view = %+v", resp.View)
	}
	if !resp.View.UsesPlaceholder {
		t.Fatal("expected placeholder picture")
	}
	if resp.Session != logicv1.StateViewing || resp.PictureModal != logicv1.ModalClosed {
		t.Fatalf("session %q modal %q", resp.Session, resp.PictureModal)
	}
	if resp.Alerts == nil {
		t.Fatal("alerts should be an empty list, not null")
	}
}

func TestEditAndSaveFlow(t *testing.T) {
	s := newTestServer(t, func(store *logicv1.ProfileStore) {
		_ = store.SaveProfile(context.Background(), domain.ProfileRecord{FirstName: "A", LastName: "B"})
	})

	if rec := s.do(t, http.MethodPost, "/api/v1/profile/edit", ""); rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d", rec.Code)
	}
	rec := s.do(t, http.MethodPatch, "/api/v1/profile/draft", `{"first_name":"Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp := decodeState(t, rec); resp.Draft == nil || resp.Draft.FirstName != "Z" || resp.Draft.LastName != "B" {
		t.Fatalf("draft = %+v", resp.Draft)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/profile/save", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeState(t, rec)
	want := domain.ProfileRecord{FirstName: "Z", LastName: "B"}
	if resp.Record != want || resp.Session != logicv1.StateViewing || resp.Draft != nil {
		t.Fatalf("state after save = %+v", resp.EditorState)
	}
	if got := s.store.LoadProfile(context.Background()); got != want {
		t.Fatalf("stored = %+v, want %+v", got, want)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	s := newTestServer(t, func(store *logicv1.ProfileStore) {
		_ = store.SaveProfile(context.Background(), domain.ProfileRecord{FirstName: "A"})
	})

	s.do(t, http.MethodPost, "/api/v1/profile/edit", "")
	s.do(t, http.MethodPatch, "/api/v1/profile/draft", `{"first_name":"Z","bio":"new"}`)
	rec := s.do(t, http.MethodPost, "/api/v1/profile/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rec.Code)
	}
	resp := decodeState(t, rec)
	if resp.Record.FirstName != "A" || resp.Draft != nil {
		t.Fatalf("state after cancel = %+v", resp.EditorState)
	}
	if got := s.store.LoadProfile(context.Background()); got.FirstName != "A" || got.Bio != "" {
		t.Fatalf("stored = %+v", got)
	}
}

func TestInvalidTransitionsConflict(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/v1/profile/save", ""},
		{http.MethodPatch, "/api/v1/profile/draft", `{"bio":"x"}`},
		{http.MethodPost, "/api/v1/profile/draft/dob/picker", ""},
		{http.MethodPost, "/api/v1/picture/acquire", `{"mode":"gallery","permission_granted":true,"locator":"file://x.png"}`},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusConflict {
			t.Errorf("%s %s status = %d, want 409", tc.method, tc.path, rec.Code)
		}
	}
}

func TestBadRequestBodies(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/api/v1/profile/edit", "")
	s.do(t, http.MethodPost, "/api/v1/profile/draft/dob/picker", "")

	for _, tc := range []struct {
		path, method, body string
	}{
		{"/api/v1/profile/draft", http.MethodPatch, `{"first_name":5}`},
		{"/api/v1/profile/draft/dob", http.MethodPost, `{"date":"07/03/1990"}`},
		{"/api/v1/profile/draft/dob", http.MethodPost, `{}`},
		{"/api/v1/picture/acquire", http.MethodPost, `{"permission_granted":true}`},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s status = %d, want 400", tc.method, tc.path, rec.Code)
		}
	}
}

func TestDateOfBirthPicker(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/api/v1/profile/edit", "")

	rec := s.do(t, http.MethodPost, "/api/v1/profile/draft/dob/picker", "")
	if resp := decodeState(t, rec); !resp.DatePickerOpen {
		t.Fatalf("picker should be open, got %+v", resp.EditorState)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/profile/draft/dob", `{"date":"2999-01-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("future date status = %d", rec.Code)
	}
	if body := decodeError(t, rec); !body.State.DatePickerOpen {
		t.Fatal("picker should stay open after a rejected date")
	}

	rec = s.do(t, http.MethodPost, "/api/v1/profile/draft/dob", `{"date":"1990-03-07"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("pick status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeState(t, rec)
	if resp.Draft == nil || resp.Draft.DateOfBirth != "3/7/1990" || resp.DatePickerOpen {
		t.Fatalf("state after pick = %+v", resp.EditorState)
	}

	s.do(t, http.MethodPost, "/api/v1/profile/draft/dob/picker", "")
	rec = s.do(t, http.MethodPost, "/api/v1/profile/draft/dob", `{"cancelled":true}`)
	resp = decodeState(t, rec)
	if resp.Draft.DateOfBirth != "3/7/1990" || resp.DatePickerOpen {
		t.Fatalf("dismissal changed the draft: %+v", resp.EditorState)
	}

	s.do(t, http.MethodPost, "/api/v1/profile/draft/dob/picker", "")
	rec = s.do(t, http.MethodDelete, "/api/v1/profile/draft/dob/picker", "")
	if resp = decodeState(t, rec); resp.DatePickerOpen || resp.Draft.DateOfBirth != "3/7/1990" {
		t.Fatalf("hide picker = %+v", resp.EditorState)
	}

	s.do(t, http.MethodPost, "/api/v1/profile/draft/dob/picker", "")
	rec = s.do(t, http.MethodPost, "/api/v1/profile/draft/dob", `{"error":"widget crashed"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("picker error status = %d", rec.Code)
	}
	if body := decodeError(t, rec); len(body.State.Alerts) != 1 || body.State.DatePickerOpen {
		t.Fatalf("picker error state = %+v", body.State)
	}
}

func TestAcquireGalleryPicture(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := s.do(t, http.MethodPost, "/api/v1/picture/open", ""); decodeState(t, rec).PictureModal != logicv1.ModalOpen {
		t.Fatal("modal should be open")
	}
	rec := s.do(t, http.MethodPost, "/api/v1/picture/acquire", `{"mode":"Gallery","permission_granted":true,"locator":"file://x.png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("acquire status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeState(t, rec)
	if resp.Outcome.Locator != "file://x.png" || resp.PictureModal != logicv1.ModalClosed {
		t.Fatalf("acquire response = %+v", resp)
	}
	if resp.Options == nil || !resp.Options.AllowsEditing || resp.Options.AspectX != 1 || resp.Options.CameraFacing != "" || resp.Options.MediaType != logicv1.MediaTypeImages {
		t.Fatalf("options = %+v", resp.Options)
	}
	if got := s.store.LoadPicture(context.Background()).Locator; got != "file://x.png" {
		t.Fatalf("stored locator = %q", got)
	}
}

func TestAcquireCancelledKeepsModalOpen(t *testing.T) {
	s := newTestServer(t, func(store *logicv1.ProfileStore) {
		_ = store.SavePicture(context.Background(), "file://old.png")
	})
	s.do(t, http.MethodPost, "/api/v1/picture/open", "")

	rec := s.do(t, http.MethodPost, "/api/v1/picture/acquire", `{"mode":"camera","permission_granted":true,"cancelled":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeState(t, rec)
	if !resp.Outcome.Cancelled || resp.PictureModal != logicv1.ModalOpen {
		t.Fatalf("cancelled acquire = %+v", resp)
	}
	if resp.Options == nil || resp.Options.CameraFacing != "front" {
		t.Fatalf("camera options = %+v", resp.Options)
	}
	if got := s.store.LoadPicture(context.Background()).Locator; got != "file://old.png" {
		t.Fatalf("stored locator = %q", got)
	}

	if rec := s.do(t, http.MethodPost, "/api/v1/picture/cancel", ""); decodeState(t, rec).PictureModal != logicv1.ModalClosed {
		t.Fatal("modal should be closed")
	}
}

func TestAcquireFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "permission denied", body: `{"mode":"camera","permission_granted":false}`, status: http.StatusForbidden},
		{name: "picker error", body: `{"mode":"gallery","permission_granted":true,"error":"picker crashed"}`, status: http.StatusUnprocessableEntity},
		{name: "unknown mode", body: `{"mode":"scanner","permission_granted":true,"locator":"file://x.png"}`, status: http.StatusBadRequest},
		{name: "empty locator", body: `{"mode":"gallery","permission_granted":true}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.do(t, http.MethodPost, "/api/v1/picture/open", "")

			rec := s.do(t, http.MethodPost, "/api/v1/picture/acquire", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.status, rec.Body.String())
			}
			body := decodeError(t, rec)
			if body.State.PictureModal != logicv1.ModalClosed {
				t.Fatalf("modal = %q, want closed", body.State.PictureModal)
			}
			if len(body.State.Alerts) != 1 {
				t.Fatalf("alerts = %v, want one", body.State.Alerts)
			}
			if s.store.LoadPicture(context.Background()).Present() {
				t.Fatal("nothing should be persisted")
			}
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	if got := sanitizeValidationError(nil); got != "" {
		t.Fatalf("nil error = %q", got)
	}
	if got := sanitizeValidationError(errMissingDate); got != errMissingDate.Error() {
		t.Fatalf("short message = %q", got)
	}
	_, err := parseBirthDate("1990/03/07")
	if got := sanitizeValidationError(err); got != "Invalid request" {
		t.Fatalf("parse error = %q", got)
	}
}

func TestStoreFailureReturnsSettledState(t *testing.T) {
	errDial := errors.New(`redis set "@user": dial tcp 127.0.0.1:6379: connect: connection refused`)
	kv := &brokenKV{Store: memory.New()}
	s := newTestServerWithKV(t, kv, func(store *logicv1.ProfileStore) {
		_ = store.SaveProfile(context.Background(), domain.ProfileRecord{FirstName: "A", LastName: "B"})
	})

	s.do(t, http.MethodPost, "/api/v1/profile/edit", "")
	s.do(t, http.MethodPatch, "/api/v1/profile/draft", `{"first_name":"Z"}`)
	kv.failSet = errDial

	rec := s.do(t, http.MethodPost, "/api/v1/profile/save", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "dial tcp") {
		t.Fatalf("response leaks store error: %s", rec.Body.String())
	}

	body := decodeError(t, rec)
	if body.Error != "Internal server error" {
		t.Fatalf("error = %q", body.Error)
	}
	want := domain.ProfileRecord{FirstName: "A", LastName: "B"}
	if body.State.Record != want || body.State.Session != logicv1.StateViewing || body.State.Draft != nil {
		t.Fatalf("settled state = %+v", body.State.EditorState)
	}
	if len(body.State.Alerts) != 1 {
		t.Fatalf("alerts = %v, want one", body.State.Alerts)
	}

	kv.failSet = nil
	if got := s.store.LoadProfile(context.Background()); got != want {
		t.Fatalf("stored = %+v, want %+v", got, want)
	}
}

func TestPictureStoreFailureReturnsSettledState(t *testing.T) {
	kv := &brokenKV{Store: memory.New()}
	s := newTestServerWithKV(t, kv, nil)
	kv.failSet = errors.New("disk full")

	s.do(t, http.MethodPost, "/api/v1/picture/open", "")
	rec := s.do(t, http.MethodPost, "/api/v1/picture/acquire", `{"mode":"gallery","permission_granted":true,"locator":"file://x.png"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeError(t, rec)
	if body.State.PictureModal != logicv1.ModalClosed || body.State.Picture.Present() {
		t.Fatalf("settled state = %+v", body.State.EditorState)
	}
	if len(body.State.Alerts) != 1 || strings.Contains(body.State.Alerts[0], "disk full") {
		t.Fatalf("alerts = %q", body.State.Alerts)
	}
}
