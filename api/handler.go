// Package api - HTTP handlers
// Handlers wrap the resolver, the options advisor and the bike store.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bike-config/core/engine"
	"bike-config/core/options"
	"bike-config/core/types"
	"bike-config/db/bikestore"
	"bike-config/internal/errors"
)

// Handler handles resolution and bike store requests
type Handler struct {
	resolver *engine.Resolver
	bikes    *bikestore.Store
	version  string
	logger   *zap.Logger
}

// Resolve handles POST /resolve
func (h *Handler) Resolve(c *gin.Context) {
	spec, ok := h.bindSpecification(c)
	if !ok {
		return
	}
	h.resolve(c, spec)
}

// Options handles POST /options. Every field of the body is optional.
func (h *Handler) Options(c *gin.Context) {
	var req SpecificationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeError(c, http.StatusBadRequest, "INVALID_JSON", err)
			return
		}
	}
	spec, err := req.toSpecification(true)
	if err != nil {
		h.writeError(c, http.StatusBadRequest, string(errors.TypeInput), err)
		return
	}
	c.JSON(http.StatusOK, options.Advise(spec))
}

// CreateBike handles POST /bikes
func (h *Handler) CreateBike(c *gin.Context) {
	spec, ok := h.bindSpecification(c)
	if !ok {
		return
	}
	if violations := options.Violations(spec); len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "ILLEGAL_COMBINATION",
			Message: "specification is not an offered combination",
			Details: violations,
		}})
		return
	}
	bike, err := h.bikes.Create(spec)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBikeResponse(bike))
}

// ListBikes handles GET /bikes
func (h *Handler) ListBikes(c *gin.Context) {
	bikes, err := h.bikes.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]BikeResponse, 0, len(bikes))
	for _, b := range bikes {
		out = append(out, toBikeResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"bikes": out, "count": len(out)})
}

// DeleteBikes handles DELETE /bikes
func (h *Handler) DeleteBikes(c *gin.Context) {
	if err := h.bikes.DeleteAll(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CurrentBike handles GET /bikes/current
func (h *Handler) CurrentBike(c *gin.Context) {
	bike, err := h.bikes.Current()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBikeResponse(bike))
}

// SetCurrentBike handles PUT /bikes/current/:name
func (h *Handler) SetCurrentBike(c *gin.Context) {
	if err := h.bikes.SetCurrent(c.Param("name")); err != nil {
		h.fail(c, err)
		return
	}
	h.CurrentBike(c)
}

// CurrentParts handles GET /bikes/current/parts
func (h *Handler) CurrentParts(c *gin.Context) {
	bike, err := h.bikes.Current()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.resolve(c, bike.Specification)
}

// Backup handles POST /bikes/backup
func (h *Handler) Backup(c *gin.Context) {
	if err := h.bikes.Backup(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "backed up"})
}

// Restore handles POST /bikes/restore
func (h *Handler) Restore(c *gin.Context) {
	if err := h.bikes.RestoreFromBackup(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (h *Handler) resolve(c *gin.Context, spec types.BicycleSpecification) {
	start := time.Now()
	result := h.resolver.Resolve(c.Request.Context(), spec)

	resp := toResolveResponse(result)
	resp.Metadata = &ResponseMetadata{
		EngineVersion: h.version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) bindSpecification(c *gin.Context) (types.BicycleSpecification, bool) {
	var req SpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(c, http.StatusBadRequest, "INVALID_JSON", err)
		return types.BicycleSpecification{}, false
	}
	spec, err := req.toSpecification(false)
	if err != nil {
		h.writeError(c, http.StatusBadRequest, string(errors.TypeInput), err)
		return types.BicycleSpecification{}, false
	}
	return spec, true
}

// fail maps a typed error onto a status code
func (h *Handler) fail(c *gin.Context, err error) {
	kind := errors.TypeOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeCatalogUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	h.writeError(c, status, string(kind), err)
}

func (h *Handler) writeError(c *gin.Context, status int, code string, err error) {
	detail := ErrorDetail{Code: code, Message: err.Error()}
	if errs := multierr.Errors(err); len(errs) > 1 {
		detail.Message = fmt.Sprintf("%d problems", len(errs))
		for _, e := range errs {
			detail.Details = append(detail.Details, e.Error())
		}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: detail})
}
