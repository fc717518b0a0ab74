package engagement

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
)

// Handler exposes the counter write endpoints. Both accept a JSON POST body
// {slug, type} and answer 202 with an empty body: callers cannot read the
// post-increment value, and nothing deduplicates repeat requests, so every
// accepted call counts.
type Handler struct {
	counters *CounterStore
	limiter  *rateLimiter
	timeout  time.Duration
}

// NewHandler creates a counter handler. Both endpoints are rate-limited to
// 60 requests per IP per minute, and each store write is bounded by a
// two-second timeout.
func NewHandler(counters *CounterStore) *Handler {
	return &Handler{
		counters: counters,
		limiter:  newRateLimiter(60, time.Minute),
		timeout:  2 * time.Second,
	}
}

// incrementRequest is the expected request body for both write endpoints.
type incrementRequest struct {
	Slug string `json:"slug"`
	Type string `json:"type"`
}

// ValidationError describes a request rejected before any store call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// parseIncrementRequest validates the request up front and never touches the
// store: wrong content type, a missing slug, or an unknown subject type each
// produce a typed rejection.
func parseIncrementRequest(c echo.Context) (string, content.SubjectType, *ValidationError) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		return "", "", &ValidationError{Reason: "must be json"}
	}
	var req incrementRequest
	if err := c.Bind(&req); err != nil {
		return "", "", &ValidationError{Reason: "invalid request body"}
	}
	if strings.TrimSpace(req.Slug) == "" {
		return "", "", &ValidationError{Reason: "slug is required"}
	}
	subject, ok := content.ParseSubjectType(req.Type)
	if !ok {
		return "", "", &ValidationError{Reason: "unknown subject type"}
	}
	return req.Slug, subject, nil
}

// IncrementView handles POST /api/incr.
func (h *Handler) IncrementView(c echo.Context) error {
	return h.increment(c, MetricViews)
}

// IncrementLike handles POST /api/like.
func (h *Handler) IncrementLike(c echo.Context) error {
	return h.increment(c, MetricLikes)
}

func (h *Handler) increment(c echo.Context, metric Metric) error {
	if !h.limiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	slug, subject, verr := parseIncrementRequest(c)
	if verr != nil {
		return c.String(http.StatusBadRequest, verr.Reason)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()
	if _, err := h.counters.Increment(ctx, metric, subject, slug); err != nil {
		// A dropped increment is silent data loss, so this must not look
		// like success to the caller.
		c.Logger().Errorf("increment %s %s/%s: %v", metric, subject, slug, err)
		return c.String(http.StatusServiceUnavailable, "counter store unavailable")
	}
	return c.NoContent(http.StatusAccepted)
}

// RegisterRoutes registers the write endpoints with the Echo router. The
// router answers 405 itself when the paths are hit with any other method.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/incr", h.IncrementView)
	e.POST("/api/like", h.IncrementLike)
}
