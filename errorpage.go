// Copyright 2026 The Sketchviz Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errorpage

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTitle is the fixed page title used by the HTML renderer.
const defaultTitle = "\U0001F916 bip... bip... something wrong happened!"

// Handler converts internal failures into content-negotiated HTTP error
// responses. It is immutable after construction and safe for concurrent
// use: the only shared state is the cached page template, which is
// read-only.
//
// Example:
//
//	h := errorpage.New(errorpage.WithLogger(logger))
//	mux.Handle("/render", h.Middleware(renderHandler))
type Handler struct {
	displayDetails bool
	title          string
	template       string
	sanitizer      *bluemonday.Policy
	logger         *slog.Logger
	metrics        *metricsRecorder

	// raw assets, resolved into template at construction
	rawTemplate string
	stylesheet  string
	logo        string
}

// errorContext is the transient per-request bundle consumed by one
// rendering pass. It is never shared across requests.
type errorContext struct {
	req     *http.Request
	res     http.ResponseWriter
	phrase  string
	info    Info
	accepts []string
}

// New creates a Handler. By default exception details are hidden from
// clients, the embedded page assets are used, and events are logged to
// slog.Default().
func New(opts ...Option) *Handler {
	h := &Handler{
		title:       defaultTitle,
		rawTemplate: defaultAsset("error.html"),
		stylesheet:  defaultAsset("main.css"),
		logo:        defaultAsset("logo.svg"),
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.template = bakeTemplate(h.rawTemplate, h.stylesheet, h.logo)
	return h
}

// Handle classifies the failure, logs it, and writes a negotiated error
// response. It always produces a response: when every acceptable format
// declines, plain text is forced. A nil failure is valid and renders
// from the status code alone.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, failure error, status int) {
	info, phrase := h.classify(failure, status)
	ec := &errorContext{
		req:     r,
		res:     w,
		phrase:  phrase,
		info:    info,
		accepts: acceptValues(r.Header.Get("Accept")),
	}
	h.logEvent(ec)
	h.recordSpan(r, info)
	h.negotiate(ec)
}

// Middleware wraps next with panic recovery. A recovered panic is
// wrapped with the goroutine's stack frames and rendered as a 500.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				h.Handle(w, r, &stackError{err: err, frames: captureFrames(3)}, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound returns an http.Handler rendering a negotiated 404 response,
// suitable as a mux fallback route.
func (h *Handler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Handle(w, r, nil, http.StatusNotFound)
	})
}

// logEvent records the error event: WARN for client-caused 4xx codes,
// ERROR for everything else.
func (h *Handler) logEvent(ec *errorContext) {
	level := slog.LevelError
	if ec.info.Code >= 400 && ec.info.Code <= 499 {
		level = slog.LevelWarn
	}
	attrs := []any{
		"method", ec.req.Method,
		"path", ec.req.URL.Path,
		"remote", ec.req.RemoteAddr,
		"code", ec.info.Code,
		"status", ec.phrase,
	}
	if ec.info.Cause != nil {
		attrs = append(attrs, "error", ec.info.Cause.Error())
	}
	h.logger.Log(ec.req.Context(), level, ec.info.Message, attrs...)
}

// recordSpan marks the active span, if any, with the rendered error.
// The handler never starts spans of its own; it only enriches the one
// propagated by the host application.
func (h *Handler) recordSpan(r *http.Request, info Info) {
	span := trace.SpanFromContext(r.Context())
	if !span.IsRecording() {
		return
	}
	span.SetStatus(codes.Error, info.Message)
	if info.Cause != nil {
		span.RecordError(info.Cause)
	}
	span.AddEvent("error response rendered", trace.WithAttributes(
		attribute.Int("http.response.status_code", info.Code),
	))
}
