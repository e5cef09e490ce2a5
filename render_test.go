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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorContext(res *httptest.ResponseRecorder, info Info) *errorContext {
	return &errorContext{
		req:  httptest.NewRequest(http.MethodGet, "/render", nil),
		res:  res,
		info: info,
	}
}

func TestRender_JSONShape(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	ok := h.render(newErrorContext(rec, Info{Code: 503, Message: "backend is down"}), "application/json")

	require.True(t, ok)
	assert.Equal(t, 503, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"error":{"code":503,"message":"backend is down"}}`, rec.Body.String(),
		"stack key must be absent without a cause")
}

func TestRender_JSONStackGating(t *testing.T) {
	t.Parallel()

	cause := stubFrames(errBoom, "pkg.fn (a.go:1)", "pkg.gn (b.go:2)")

	tests := []struct {
		name      string
		details   bool
		wantStack []string
	}{
		{name: "details off omits stack", details: false, wantStack: nil},
		{name: "details on includes stack", details: true, wantStack: []string{"pkg.fn (a.go:1)", "pkg.gn (b.go:2)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler(WithDetails(tt.details))
			rec := httptest.NewRecorder()
			ok := h.render(newErrorContext(rec, Info{Cause: cause, Code: 500, Message: "boom"}), "application/json")
			require.True(t, ok)

			var body struct {
				Error struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
				Stack []string `json:"stack"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, 500, body.Error.Code)
			assert.Equal(t, tt.wantStack, body.Stack)
			if !tt.details {
				assert.NotContains(t, rec.Body.String(), "stack")
			}
		})
	}
}

func TestRender_PlainText(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(WithDetails(true))
	rec := httptest.NewRecorder()
	info := Info{
		Cause:   stubFrames(errBoom, "pkg.fn (a.go:1)", "pkg.gn (b.go:2)"),
		Code:    500,
		Message: "boom: database on fire",
	}
	ok := h.render(newErrorContext(rec, info), "text/plain")

	require.True(t, ok)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	want := "Error 500: boom: database on fire" +
		"\tat pkg.fn (a.go:1)\n" +
		"\tat pkg.gn (b.go:2)\n"
	assert.Equal(t, want, rec.Body.String())
}

func TestRender_HTML(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(WithDetails(true))
	rec := httptest.NewRecorder()
	info := Info{
		Cause:   stubFrames(errBoom, "pkg.fn (a.go:1)"),
		Code:    500,
		Message: "something broke",
	}
	ok := h.render(newErrorContext(rec, info), "text/html")

	require.True(t, ok)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, defaultTitle)
	assert.Contains(t, body, "Error 500")
	assert.Contains(t, body, "something broke")
	assert.Contains(t, body, "<li>pkg.fn (a.go:1)</li>")
	assert.NotContains(t, body, "{errorCode}", "all placeholders substituted")
	assert.NotContains(t, body, "{errorMessage}")
	assert.NotContains(t, body, "{stackTrace}")
	assert.NotContains(t, body, "{title}")
}

func TestRender_HTMLSanitizesScript(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	info := Info{Code: 400, Message: `<script>alert(1)</script>`}
	ok := h.render(newErrorContext(rec, info), "text/html")

	require.True(t, ok)
	assert.NotContains(t, rec.Body.String(), "<script>", "markup must be stripped or escaped")
}

func TestRender_HTMLSanitizesStackFrames(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(WithDetails(true))
	rec := httptest.NewRecorder()
	info := Info{
		Cause: stubFrames(errBoom, `pkg.fn <script>alert(1)</script> (a.go:1)`),
		Code:  500, Message: "boom",
	}
	ok := h.render(newErrorContext(rec, info), "text/html")

	require.True(t, ok)
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestRender_HTMLPrefersDedicatedHTMLMessage(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	info := Info{Code: 400, Message: "plain words", HTMLMessage: "rich words"}
	ok := h.render(newErrorContext(rec, info), "text/html")

	require.True(t, ok)
	assert.Contains(t, rec.Body.String(), "rich words")
	assert.NotContains(t, rec.Body.String(), "plain words")
}

func TestRender_SVG(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	ok := h.render(newErrorContext(rec, Info{Code: 500, Message: "boom"}), "image/svg+xml")

	require.True(t, ok)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Error 500: boom")
}

func TestRender_PNG(t *testing.T) {
	t.Parallel()

	for _, mime := range []string{"image/png", "image/*"} {
		t.Run(mime, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler()
			rec := httptest.NewRecorder()
			ok := h.render(newErrorContext(rec, Info{Code: 500, Message: "boom"}), mime)

			require.True(t, ok)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG\r\n\x1a\n"),
				"body must start with the PNG signature")
		})
	}
}

func TestRender_ImageDeclineLeavesResponseUntouched(t *testing.T) {
	t.Parallel()

	h, sink := newTestHandler()
	rec := httptest.NewRecorder()
	info := Info{Code: 500, Message: strings.Repeat("x", maxImageChars+1)}

	for _, mime := range []string{"image/svg+xml", "image/png"} {
		ok := h.render(newErrorContext(rec, info), mime)
		assert.False(t, ok, "%s must decline on generation failure", mime)
	}
	assert.Empty(t, rec.Body.String(), "a declined strategy must not write")
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Contains(t, sink.String(), "unable to generate error image")
}

func TestRender_UnknownMIMEDeclines(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()

	for _, mime := range []string{"application/xml", "video/mp4", "application/pdf", ""} {
		assert.False(t, h.render(newErrorContext(rec, Info{Code: 500, Message: "x"}), mime), mime)
	}
	assert.Empty(t, rec.Body.String())
}

func TestRender_MIMEParametersIgnoredForMatching(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	rec := httptest.NewRecorder()
	ok := h.render(newErrorContext(rec, Info{Code: 500, Message: "x"}), "text/html; charset=utf-8")

	require.True(t, ok)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
}

func TestComposeText_DetailsGating(t *testing.T) {
	t.Parallel()

	cause := stubFrames(errBoom, "pkg.fn (a.go:1)")

	hOff, _ := newTestHandler()
	assert.Equal(t, "Error 500: m", hOff.composeText(Info{Cause: cause, Code: 500, Message: "m"}),
		"frames hidden without details")

	hOn, _ := newTestHandler(WithDetails(true))
	assert.Equal(t, "Error 500: m\tat pkg.fn (a.go:1)\n",
		hOn.composeText(Info{Cause: cause, Code: 500, Message: "m"}))
	assert.Equal(t, "Error 500: m", hOn.composeText(Info{Code: 500, Message: "m"}),
		"no cause, no frames")
}
