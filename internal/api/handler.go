// Package api provides the HTTP API consumed by the release dashboard.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// Error codes returned in ErrorResponse.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeUnavailable    = "SOURCE_UNAVAILABLE"
	codeInternal       = "INTERNAL_ERROR"
)

// Handler serves the API routes.
type Handler struct {
	baseCfg *contract.Config
	src     contract.ReleaseSource // nil disables the release routes
	metrics *Metrics
}

// NewHandler creates a Handler. The source may be nil.
func NewHandler(baseCfg *contract.Config, src contract.ReleaseSource, metrics *Metrics) *Handler {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{
		baseCfg: baseCfg,
		src:     src,
		metrics: metrics,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DeltaRequest is the body of POST /api/v1/deltas.
type DeltaRequest struct {
	Base   schema.SummaryMetrics `json:"base" binding:"required"`
	Target schema.SummaryMetrics `json:"target" binding:"required"`
}

// sendError writes a structured error and logs it.
func (h *Handler) sendError(c *gin.Context, statusCode int, code, message string) {
	contract.Logger.Error("Request error",
		"request_id", core.RequestIDFrom(c.Request.Context()),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"status", statusCode,
		"error_code", code,
		"message", message,
	)

	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	c.AbortWithStatusJSON(statusCode, resp)
}

// sendSourceError maps a source failure to a status code.
func (h *Handler) sendSourceError(c *gin.Context, err error) {
	if errors.Is(err, contract.ErrUnknownRelease) {
		h.sendError(c, http.StatusNotFound, codeNotFound, err.Error())
		return
	}
	h.sendError(c, http.StatusInternalServerError, codeInternal, err.Error())
}

// requireSource reports whether a source is configured, writing an error when not.
func (h *Handler) requireSource(c *gin.Context) bool {
	if h.src == nil {
		h.sendError(c, http.StatusServiceUnavailable, codeUnavailable, "no release source is configured")
		return false
	}
	return true
}

// normalizeWindow fills the window, category and locale defaults from the base config.
func (h *Handler) normalizeWindow(window *string, category *schema.WindowScope, locale *string) error {
	if *window == "" {
		*window = h.baseCfg.Window
	}
	if *category == "" {
		*category = h.baseCfg.Category
	}
	if *category == "" {
		*category = schema.ShortWindow
	}
	if _, ok := schema.ValidWindowScopes[*category]; !ok {
		return fmt.Errorf("invalid category '%s'. must be short, release", *category)
	}
	if *locale == "" {
		*locale = h.baseCfg.Locale
	}
	return nil
}

// observeWindow logs and counts a window fallback.
func (h *Handler) observeWindow(c *gin.Context, category schema.WindowScope, window string) {
	if _, fallback := core.ResolveWindow(c.Request.Context(), category, window); fallback {
		h.metrics.fallbacks.WithLabelValues(string(category)).Inc()
	}
}

// CreateComparison handles POST /api/v1/comparisons.
func (h *Handler) CreateComparison(c *gin.Context) {
	var in schema.ComparisonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if err := h.normalizeWindow(&in.Window, &in.Category, &in.Locale); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if err := schema.ValidateSeriesNames(in.Primary, in.Comparison); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	h.observeWindow(c, in.Category, in.Window)
	snapshot := core.BuildComparison(in, h.baseCfg.Clock())
	h.metrics.comparisons.Inc()

	c.JSON(http.StatusOK, snapshot)
}

// CreateChart handles POST /api/v1/charts.
func (h *Handler) CreateChart(c *gin.Context) {
	var in schema.ChartInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if err := h.normalizeWindow(&in.Window, &in.Category, &in.Locale); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if err := schema.ValidateSeriesNames(in.Series); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	h.observeWindow(c, in.Category, in.Window)
	c.JSON(http.StatusOK, core.BuildChart(in, h.baseCfg.Clock()))
}

// CreateDelta handles POST /api/v1/deltas.
func (h *Handler) CreateDelta(c *gin.Context) {
	var req DeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, core.Compare(req.Base, req.Target))
}

// GetWindows handles GET /api/v1/windows/:category.
func (h *Handler) GetWindows(c *gin.Context) {
	category := schema.WindowScope(c.Param("category"))
	if _, ok := schema.ValidWindowScopes[category]; !ok {
		h.sendError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("unknown category '%s'", category))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"windows":  core.WindowOptions(category),
		"fallback": core.FallbackWidth(category),
	})
}

// ListReleases handles GET /api/v1/releases.
func (h *Handler) ListReleases(c *gin.Context) {
	if !h.requireSource(c) {
		return
	}
	releases, err := h.src.ListReleases(c.Request.Context())
	if err != nil {
		h.sendSourceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

// GetReleaseComparison handles GET /api/v1/releases/:version/comparison?base=...
func (h *Handler) GetReleaseComparison(c *gin.Context) {
	if !h.requireSource(c) {
		return
	}
	q := schema.ReleaseQuery{
		Window:        c.Query("window"),
		Category:      schema.WindowScope(c.Query("category")),
		Locale:        c.Query("locale"),
		BaseVersion:   c.Query("base"),
		TargetVersion: c.Param("version"),
	}
	if q.BaseVersion == "" {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, "base is required")
		return
	}
	if q.BaseVersion == q.TargetVersion {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, contract.ErrSameRelease.Error())
		return
	}
	if err := h.normalizeWindow(&q.Window, &q.Category, &q.Locale); err != nil {
		h.sendError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	snapshot, err := core.CompareFromSource(c.Request.Context(), h.src, q, h.baseCfg.Clock())
	if err != nil {
		h.sendSourceError(c, err)
		return
	}
	if snapshot.Fallback {
		h.metrics.fallbacks.WithLabelValues(string(q.Category)).Inc()
	}
	h.metrics.comparisons.Inc()

	contract.LogDebug("Release comparison served", "base", q.BaseVersion, "target", q.TargetVersion)
	c.JSON(http.StatusOK, snapshot)
}

// SetupRouter configures the gin routes.
func (h *Handler) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.metrics), Timeout(requestTimeout))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/comparisons", h.CreateComparison)
	v1.POST("/charts", h.CreateChart)
	v1.POST("/deltas", h.CreateDelta)
	v1.GET("/windows/:category", h.GetWindows)
	v1.GET("/releases", h.ListReleases)
	v1.GET("/releases/:version/comparison", h.GetReleaseComparison)

	return r
}
