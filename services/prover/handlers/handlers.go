// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers exposes the prover over HTTP.
//
// Routes:
//
//	POST /v1/prover/verify      VerificationRequest -> VerificationResult
//	POST /v1/prover/compare     VerificationRequest -> ComparisonReport
//	GET  /v1/prover/strategies  registered strategy names
//	GET  /v1/prover/axioms      axioms and recorded theorems
//	GET  /health                liveness
//	GET  /metrics               Prometheus exposition
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/telemetry"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// ServiceVersion is reported by /health.
const ServiceVersion = "0.1.0"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable, machine-readable error code.
	Code string `json:"code,omitempty"`

	// Details carries the underlying error text, if any.
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status     string   `json:"status"`
	Version    string   `json:"version"`
	Axioms     int      `json:"axioms"`
	Theorems   int      `json:"theorems"`
	Strategies []string `json:"strategies"`
}

// TheoremView is the wire form of an axiom or recorded theorem.
type TheoremView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Statement  string   `json:"statement"`
	Hypotheses []string `json:"hypotheses"`
	Conclusion string   `json:"conclusion"`
	Universe   string   `json:"universe"`
	Complexity float64  `json:"complexity"`
}

// AxiomsResponse is returned by GET /v1/prover/axioms.
type AxiomsResponse struct {
	Axioms   []TheoremView `json:"axioms"`
	Theorems []TheoremView `json:"theorems"`
}

// StrategiesResponse is returned by GET /v1/prover/strategies.
type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
	Default    string   `json:"default"`
}

// Handlers serves prover requests.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	prover *prover.Prover
	logger *slog.Logger
}

// NewHandlers creates handlers backed by p. A nil logger means slog.Default().
func NewHandlers(p *prover.Prover, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{prover: p, logger: logger.With(slog.String("component", "prover_http"))}
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// RateLimit is the sustained request rate across all clients. Zero
	// disables limiting.
	RateLimit rate.Limit

	// Burst is the limiter bucket size. Values below 1 mean 1.
	Burst int
}

// NewRouter builds a gin engine with recovery, tracing, optional rate
// limiting, and every prover route.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	if opts.ServiceName == "" {
		opts.ServiceName = "skintwin-prover"
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(opts.ServiceName))
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		router.Use(RateLimit(rate.NewLimiter(opts.RateLimit, burst)))
	}
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the prover routes on r.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(metricsHandler()))

	v1 := r.Group("/v1/prover")
	v1.POST("/verify", h.HandleVerify)
	v1.POST("/compare", h.HandleCompare)
	v1.GET("/strategies", h.HandleStrategies)
	v1.GET("/axioms", h.HandleAxioms)
}

// RateLimit rejects requests with 429 once limiter is exhausted.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many requests",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}

// HandleVerify handles POST /v1/prover/verify.
//
// Responses:
//   - 200: VerificationResult, proven or not.
//   - 400: Malformed body, invalid request, or unknown strategy.
func (h *Handlers) HandleVerify(c *gin.Context) {
	req, ok := h.bindRequest(c, "HandleVerify")
	if !ok {
		return
	}
	res, err := h.prover.Verify(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "HandleVerify", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleCompare handles POST /v1/prover/compare.
func (h *Handlers) HandleCompare(c *gin.Context) {
	req, ok := h.bindRequest(c, "HandleCompare")
	if !ok {
		return
	}
	report, err := h.prover.CompareStrategies(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "HandleCompare", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleStrategies handles GET /v1/prover/strategies.
func (h *Handlers) HandleStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, StrategiesResponse{
		Strategies: h.prover.Strategies(),
		Default:    h.prover.Config().Search.DefaultStrategy,
	})
}

// HandleAxioms handles GET /v1/prover/axioms.
func (h *Handlers) HandleAxioms(c *gin.Context) {
	snapshot := h.prover.Store().Snapshot()
	c.JSON(http.StatusOK, AxiomsResponse{
		Axioms:   views(snapshot.Axioms),
		Theorems: views(snapshot.Theorems),
	})
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	snapshot := h.prover.Store().Snapshot()
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    ServiceVersion,
		Axioms:     len(snapshot.Axioms),
		Theorems:   len(snapshot.Theorems),
		Strategies: h.prover.Strategies(),
	})
}

func (h *Handlers) bindRequest(c *gin.Context, handler string) (*prover.VerificationRequest, bool) {
	requestID := getOrCreateRequestID(c)
	var req prover.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body",
			slog.String("request_id", requestID),
			slog.String("handler", handler),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return nil, false
	}
	if req.RequestID == "" {
		req.RequestID = requestID
	}
	return &req, true
}

func (h *Handlers) writeError(c *gin.Context, handler string, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: "Verification failed", Code: "VERIFY_FAILED", Details: err.Error()}

	switch {
	case errors.Is(err, prover.ErrInvalidRequest):
		status = http.StatusBadRequest
		resp.Error, resp.Code = "Invalid request", "INVALID_REQUEST"
	case errors.Is(err, search.ErrUnknownStrategy):
		status = http.StatusBadRequest
		resp.Error, resp.Code = "Unknown strategy", "UNKNOWN_STRATEGY"
	}

	h.logger.Warn("Request failed",
		slog.String("request_id", c.Writer.Header().Get("X-Request-ID")),
		slog.String("handler", handler),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	c.JSON(status, resp)
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func views(ts []*theory.Theorem) []TheoremView {
	out := make([]TheoremView, 0, len(ts))
	for _, t := range ts {
		hyps := t.Hypotheses()
		hypStrings := make([]string, 0, len(hyps))
		for _, hyp := range hyps {
			hypStrings = append(hypStrings, hyp.String())
		}
		out = append(out, TheoremView{
			ID:         t.ID,
			Name:       t.Name,
			Statement:  t.Statement.String(),
			Hypotheses: hypStrings,
			Conclusion: t.Conclusion().String(),
			Universe:   t.Universe.String(),
			Complexity: t.Complexity,
		})
	}
	return out
}

// metricsHandler prefers the handler installed by telemetry.Init and falls
// back to the default Prometheus registry.
func metricsHandler() http.Handler {
	if h := telemetry.MetricsHandler(); h != nil {
		return h
	}
	return promhttp.Handler()
}
