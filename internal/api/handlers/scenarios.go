package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"captable/internal/api/middleware"
	"captable/internal/api/models"
	"captable/internal/captable"
	"captable/internal/metrics"
	"captable/internal/store"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler serves saved scenarios and share links.
type ScenarioHandler struct {
	store    store.Store
	engine   *captable.Engine
	log      *slog.Logger
	shareTTL time.Duration
}

func NewScenarioHandler(st store.Store, engine *captable.Engine, log *slog.Logger, shareTTL time.Duration) *ScenarioHandler {
	return &ScenarioHandler{store: st, engine: engine, log: log, shareTTL: shareTTL}
}

// List handles GET /api/v1/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context(), middleware.UserID(c))
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		h.storeError(c, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	c.JSON(http.StatusOK, models.ScenarioListResponse{Scenarios: list})
}

// Get handles GET /api/v1/scenarios/:id
func (h *ScenarioHandler) Get(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	metrics.RecordStoreOperation("get", err)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewScenarioResponse(rec))
}

// Create handles POST /api/v1/scenarios. Any id in the body is ignored.
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req models.SaveScenarioRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Scenario.ID = ""
	h.save(c, req, http.StatusCreated)
}

// Update handles PUT /api/v1/scenarios/:id
func (h *ScenarioHandler) Update(c *gin.Context) {
	var req models.SaveScenarioRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Scenario.ID = c.Param("id")
	h.save(c, req, http.StatusOK)
}

// save stores the scenario as given. Invalid scenarios are kept so they can
// be edited later; only calculation enforces validity.
func (h *ScenarioHandler) save(c *gin.Context, req models.SaveScenarioRequest, status int) {
	rec, err := h.store.Save(c.Request.Context(), middleware.UserID(c), req.Scenario)
	metrics.RecordStoreOperation("save", err)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(status, models.NewScenarioResponse(rec))
}

// Delete handles DELETE /api/v1/scenarios/:id
func (h *ScenarioHandler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	metrics.RecordStoreOperation("delete", err)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Share handles POST /api/v1/scenarios/:id/share
func (h *ScenarioHandler) Share(c *gin.Context) {
	link, err := h.store.CreateShareLink(c.Request.Context(), middleware.UserID(c), c.Param("id"), h.shareTTL)
	metrics.RecordStoreOperation("share", err)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ShareLinkResponse{Token: link.Token, ExpiresAt: link.ExpiresAt})
}

// Shared handles GET /api/v1/shared/:token. No user header is needed.
func (h *ScenarioHandler) Shared(c *gin.Context) {
	rec, err := h.store.GetShared(c.Request.Context(), c.Param("token"))
	metrics.RecordStoreOperation("get_shared", err)
	if err != nil {
		h.storeError(c, err)
		return
	}

	resp := models.SharedScenarioResponse{Scenario: rec.Scenario}
	if violations := h.engine.Validate(rec.Scenario); len(violations) > 0 {
		resp.Violations = violations
	} else if result, err := h.engine.Calculate(rec.Scenario); err != nil {
		h.log.Warn("shared scenario failed to calculate", "scenario_id", rec.Scenario.ID, "error", err)
		resp.Violations = []string{err.Error()}
	} else {
		resp.Result = result
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScenarioHandler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", err.Error()))
	case errors.Is(err, store.ErrShareExpired):
		c.JSON(http.StatusGone, models.NewError("SHARE_EXPIRED", err.Error()))
	case errors.Is(err, store.ErrOwnership):
		c.JSON(http.StatusForbidden, models.NewError("FORBIDDEN", err.Error()))
	default:
		h.log.Error("store operation failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, models.NewError("STORE_ERROR", "failed to access scenario store"))
	}
}
