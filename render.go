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
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"strconv"
	"strings"
)

// strategy pairs a media-type predicate with a rendering function.
// A renderer either writes the complete response and reports true, or
// declines with false without touching the response.
type strategy struct {
	format string
	match  func(mime string) bool
	render func(h *Handler, ec *errorContext) bool
}

// strategies is the ordered dispatch table. Once negotiation selects a
// media type, the first matching entry wins. Matching is an exact
// prefix check on the bare type/subtype; parameters were stripped by
// the negotiator.
var strategies = []strategy{
	{"html", matchPrefix("text/html"), (*Handler).renderHTML},
	{"json", matchPrefix("application/json"), (*Handler).renderJSON},
	{"text", matchPrefix("text/plain"), (*Handler).renderPlain},
	{"svg", matchPrefix("image/svg+xml"), (*Handler).renderSVG},
	{"png", func(mime string) bool {
		return strings.HasPrefix(mime, "image/png") || strings.HasPrefix(mime, "image/*")
	}, (*Handler).renderPNG},
}

func matchPrefix(prefix string) func(string) bool {
	return func(mime string) bool {
		return strings.HasPrefix(mime, prefix)
	}
}

// render attempts to produce a response body for one media-type
// candidate. It reports false when no strategy matches the candidate or
// when the matching strategy declines, in which case the response has
// not been written and negotiation may continue.
func (h *Handler) render(ec *errorContext, mime string) bool {
	m := mediaType(mime)
	for i := range strategies {
		s := &strategies[i]
		if !s.match(m) {
			continue
		}
		if !s.render(h, ec) {
			h.metrics.incDecline(s.format)
			return false
		}
		h.metrics.incRender(s.format)
		return true
	}
	return false
}

// write sends the final response: headers first, then status, then body.
func (ec *errorContext) write(contentType string, body []byte) {
	ec.res.Header().Set("Content-Type", contentType)
	ec.res.WriteHeader(ec.info.Code)
	_, _ = ec.res.Write(body)
}

// renderHTML substitutes the error into the cached page template. The
// message and every stack frame pass through the sanitizer before they
// reach the markup. Never declines.
func (h *Handler) renderHTML(ec *errorContext) bool {
	info := ec.info
	var stack strings.Builder
	if info.Cause != nil && h.displayDetails {
		for _, frame := range stackFrames(info.Cause) {
			stack.WriteString("<li>")
			stack.WriteString(h.sanitize(frame))
			stack.WriteString("</li>")
		}
	}
	message := info.HTMLMessage
	if message == "" {
		message = info.Message
	}
	body := strings.NewReplacer(
		placeholderTitle, h.title,
		placeholderCode, strconv.Itoa(info.Code),
		placeholderMessage, h.sanitize(message),
		placeholderStackTrace, stack.String(),
	).Replace(h.template)
	ec.write("text/html", []byte(body))
	return true
}

// jsonBody is the wire shape of the JSON renderer:
// {"error":{"code":500,"message":"..."},"stack":["...",...]} with stack
// omitted unless a cause with frames exists and details are enabled.
type jsonBody struct {
	Error jsonError `json:"error"`
	Stack []string  `json:"stack,omitempty"`
}

type jsonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// renderJSON emits the error as JSON. Never declines: the body is plain
// data and always marshals.
func (h *Handler) renderJSON(ec *errorContext) bool {
	info := ec.info
	body := jsonBody{Error: jsonError{Code: info.Code, Message: info.Message}}
	if info.Cause != nil && h.displayDetails {
		body.Stack = stackFrames(info.Cause)
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		// Cannot happen for this shape; keep the fallback chain honest.
		return false
	}
	ec.write("application/json", encoded)
	return true
}

// renderPlain emits the composed text message. It is the forced
// fallback and never declines.
func (h *Handler) renderPlain(ec *errorContext) bool {
	ec.write("text/plain", []byte(h.composeText(ec.info)))
	return true
}

// renderSVG draws the composed text message as a vector image.
// Declines when image generation fails.
func (h *Handler) renderSVG(ec *errorContext) bool {
	source, err := BuildSVG(h.composeText(ec.info))
	if err != nil {
		h.logger.Warn("unable to generate error image", "error", err)
		h.metrics.incImageFailure()
		return false
	}
	ec.write("image/svg+xml", source)
	return true
}

// renderPNG draws the composed text message as a raster image.
// Declines when image generation or PNG encoding fails.
func (h *Handler) renderPNG(ec *errorContext) bool {
	img, err := BuildPNG(h.composeText(ec.info))
	if err != nil {
		h.logger.Warn("unable to generate error image", "error", err)
		h.metrics.incImageFailure()
		return false
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.logger.Warn("unable to encode error image", "error", err)
		h.metrics.incImageFailure()
		return false
	}
	ec.write("image/png", buf.Bytes())
	return true
}

// composeText builds the shared textual rendition used by the plain and
// image renderers: "Error <code>: <message>" plus, with details enabled
// and a cause present, one "\tat <frame>\n" entry per stack frame.
func (h *Handler) composeText(info Info) string {
	var sb strings.Builder
	sb.WriteString("Error ")
	fmt.Fprintf(&sb, "%d", info.Code)
	sb.WriteString(": ")
	sb.WriteString(info.Message)
	if info.Cause != nil && h.displayDetails {
		for _, frame := range stackFrames(info.Cause) {
			sb.WriteString("\tat ")
			sb.WriteString(frame)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
