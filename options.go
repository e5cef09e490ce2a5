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
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Option configures a Handler during construction.
type Option func(*Handler)

// WithDetails enables exposing exception details (raw messages and
// stack traces) to clients. Off by default: without it, generic
// failures render as "Internal Server Error" and no stack frames are
// emitted in any format.
//
// Enable only in trusted environments:
//
//	h := errorpage.New(errorpage.WithDetails(true))
func WithDetails(enabled bool) Option {
	return func(h *Handler) {
		h.displayDetails = enabled
	}
}

// WithLogger sets the structured logger receiving error events.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTitle overrides the fixed title substituted into the HTML page.
func WithTitle(title string) Option {
	return func(h *Handler) {
		h.title = title
	}
}

// WithTemplate replaces the embedded error page template. The template
// may reference {title}, {errorCode}, {errorMessage}, {stackTrace} and
// the startup-time {stylesheet} and {logo} placeholders.
func WithTemplate(template string) Option {
	return func(h *Handler) {
		h.rawTemplate = template
	}
}

// WithStylesheet replaces the embedded stylesheet baked into the page
// template at construction.
func WithStylesheet(css string) Option {
	return func(h *Handler) {
		h.stylesheet = css
	}
}

// WithLogo replaces the embedded logo markup baked into the page
// template at construction.
func WithLogo(logo string) Option {
	return func(h *Handler) {
		h.logo = logo
	}
}

// WithSanitizer replaces the HTML sanitization policy. The default is
// bluemonday.StrictPolicy(), which strips all markup.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(h *Handler) {
		if policy != nil {
			h.sanitizer = policy
		}
	}
}

// WithMetrics registers rendering metrics (renders, declines, image
// failures) on the given registerer. Without this option the handler
// records no metrics.
func WithMetrics(reg prom.Registerer) Option {
	return func(h *Handler) {
		if reg != nil {
			h.metrics = newMetricsRecorder(reg)
		}
	}
}
