package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/duynhne/profile-editor/internal/core/domain"
	logicv1 "github.com/duynhne/profile-editor/internal/logic/v1"
	"github.com/duynhne/profile-editor/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// stateResponse is the screen state plus any alerts raised since the last response.
type stateResponse struct {
	logicv1.EditorState
	Alerts []string `json:"alerts"`
}

// acquireResponse adds the acquisition outcome and the picker options that were requested.
type acquireResponse struct {
	stateResponse
	Outcome logicv1.PictureOutcome `json:"outcome"`
	Options *logicv1.PickOptions   `json:"options,omitempty"`
}

// ProfileHandler exposes the profile editor to the on-device UI.
type ProfileHandler struct {
	editor *logicv1.Editor
	logger *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(editor *logicv1.Editor, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{
		editor: editor,
		logger: logger,
	}
}

// RegisterRoutes mounts the editor routes on an /api/v1 group.
func (h *ProfileHandler) RegisterRoutes(api *gin.RouterGroup) {
	profile := api.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.POST("/edit", h.BeginEdit)
		profile.PATCH("/draft", h.UpdateDraft)
		profile.POST("/draft/dob/picker", h.ShowDatePicker)
		profile.DELETE("/draft/dob/picker", h.HideDatePicker)
		profile.POST("/draft/dob", h.PickDateOfBirth)
		profile.POST("/save", h.Save)
		profile.POST("/cancel", h.Cancel)
	}

	picture := api.Group("/picture")
	{
		picture.POST("/open", h.OpenPicture)
		picture.POST("/cancel", h.ClosePicture)
		picture.POST("/acquire", h.AcquirePicture)
	}
}

func (h *ProfileHandler) start(c *gin.Context, op string) (context.Context, trace.Span, *zap.Logger) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
		attribute.String("operation", op),
	))
	return ctx, span, middleware.LoggerFromGinContext(c, h.logger)
}

func (h *ProfileHandler) respond(state logicv1.EditorState) stateResponse {
	alerts := h.editor.Alerts().Drain()
	if alerts == nil {
		alerts = []string{}
	}
	return stateResponse{EditorState: state, Alerts: alerts}
}

// fail writes the error status with the consistent state the editor settled in.
func (h *ProfileHandler) fail(c *gin.Context, span trace.Span, logger *zap.Logger, msg string, state logicv1.EditorState, err error) {
	span.RecordError(err)
	status, public := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err))
	} else {
		logger.Warn(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": public, "state": h.respond(state)})
}

func (h *ProfileHandler) badRequest(c *gin.Context, span trace.Span, logger *zap.Logger, err error) {
	span.SetAttributes(attribute.Bool("request.valid", false))
	span.RecordError(err)
	logger.Warn("Invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "Action not allowed in the current state"
	case errors.Is(err, domain.ErrFutureDate):
		return http.StatusBadRequest, "Date of birth cannot be in the future"
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest, "Unknown picture source"
	case errors.Is(err, domain.ErrEmptyLocator):
		return http.StatusBadRequest, "Picture locator is required"
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied"
	case isClientError(err):
		return http.StatusUnprocessableEntity, "Device reported a failure"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	_, span, _ := h.start(c, "get_profile")
	defer span.End()

	c.JSON(http.StatusOK, h.respond(h.editor.State()))
}

// BeginEdit handles POST /api/v1/profile/edit
func (h *ProfileHandler) BeginEdit(c *gin.Context) {
	_, span, logger := h.start(c, "begin_edit")
	defer span.End()

	state, err := h.editor.BeginEdit()
	if err != nil {
		h.fail(c, span, logger, "Failed to begin edit", state, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(state))
}

// UpdateDraft handles PATCH /api/v1/profile/draft
func (h *ProfileHandler) UpdateDraft(c *gin.Context) {
	_, span, logger := h.start(c, "update_draft")
	defer span.End()

	var patch logicv1.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, span, logger, err)
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	state, err := h.editor.UpdateDraft(patch)
	if err != nil {
		h.fail(c, span, logger, "Failed to update draft", state, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(state))
}

// ShowDatePicker handles POST /api/v1/profile/draft/dob/picker
func (h *ProfileHandler) ShowDatePicker(c *gin.Context) {
	_, span, logger := h.start(c, "show_date_picker")
	defer span.End()

	state, err := h.editor.ShowDatePicker()
	if err != nil {
		h.fail(c, span, logger, "Failed to show date picker", state, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(state))
}

// HideDatePicker handles DELETE /api/v1/profile/draft/dob/picker
func (h *ProfileHandler) HideDatePicker(c *gin.Context) {
	_, span, _ := h.start(c, "hide_date_picker")
	defer span.End()

	c.JSON(http.StatusOK, h.respond(h.editor.HideDatePicker()))
}

// PickDateOfBirth handles POST /api/v1/profile/draft/dob
func (h *ProfileHandler) PickDateOfBirth(c *gin.Context) {
	ctx, span, logger := h.start(c, "pick_date_of_birth")
	defer span.End()

	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, span, logger, err)
		return
	}
	picker, err := newClientDatePicker(req)
	if err != nil {
		h.badRequest(c, span, logger, err)
		return
	}
	span.SetAttributes(
		attribute.Bool("request.valid", true),
		attribute.Bool("date.cancelled", req.Cancelled),
	)

	state, err := h.editor.PickDateOfBirth(ctx, picker)
	if err != nil {
		h.fail(c, span, logger, "Failed to pick date of birth", state, err)
		return
	}
	c.JSON(http.StatusOK, h.respond(state))
}

// Save handles POST /api/v1/profile/save
func (h *ProfileHandler) Save(c *gin.Context) {
	ctx, span, logger := h.start(c, "save_profile")
	defer span.End()

	state, err := h.editor.Save(ctx)
	if err != nil {
		h.fail(c, span, logger, "Failed to save profile", state, err)
		return
	}
	logger.Info("Profile saved")
	c.JSON(http.StatusOK, h.respond(state))
}

// Cancel handles POST /api/v1/profile/cancel
func (h *ProfileHandler) Cancel(c *gin.Context) {
	_, span, _ := h.start(c, "cancel_edit")
	defer span.End()

	c.JSON(http.StatusOK, h.respond(h.editor.Cancel()))
}

// OpenPicture handles POST /api/v1/picture/open
func (h *ProfileHandler) OpenPicture(c *gin.Context) {
	_, span, _ := h.start(c, "open_picture")
	defer span.End()

	c.JSON(http.StatusOK, h.respond(h.editor.OpenPicture()))
}

// ClosePicture handles POST /api/v1/picture/cancel
func (h *ProfileHandler) ClosePicture(c *gin.Context) {
	_, span, _ := h.start(c, "close_picture")
	defer span.End()

	c.JSON(http.StatusOK, h.respond(h.editor.ClosePicture()))
}

// AcquirePicture handles POST /api/v1/picture/acquire
func (h *ProfileHandler) AcquirePicture(c *gin.Context) {
	ctx, span, logger := h.start(c, "acquire_picture")
	defer span.End()

	var req acquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, span, logger, err)
		return
	}
	mode := normalizePictureMode(req.Mode)
	span.SetAttributes(
		attribute.Bool("request.valid", true),
		attribute.String("picture.mode", string(mode)),
	)

	media := &clientMedia{req: req}
	outcome, state, err := h.editor.AcquirePicture(ctx, mode, media)
	if err != nil {
		h.fail(c, span, logger, "Failed to acquire picture", state, err)
		return
	}

	resp := acquireResponse{stateResponse: h.respond(state), Outcome: outcome}
	if media.options != (logicv1.PickOptions{}) {
		opts := media.options
		resp.Options = &opts
	}
	if !outcome.Cancelled {
		logger.Info("Profile picture updated", zap.String("mode", string(mode)))
	}
	c.JSON(http.StatusOK, resp)
}
