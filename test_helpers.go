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

// Test helpers shared across the package tests.

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
)

// logSink is a concurrency-safe buffer capturing slog output.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// newTestLogger returns a text slog.Logger and the sink it writes to.
func newTestLogger() (*slog.Logger, *logSink) {
	sink := &logSink{}
	return slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelDebug})), sink
}

// newTestHandler builds a Handler with a captured logger plus any extra
// options.
func newTestHandler(opts ...Option) (*Handler, *logSink) {
	logger, sink := newTestLogger()
	return New(append([]Option{WithLogger(logger)}, opts...)...), sink
}

// serve runs one failure through the handler and returns the recorded
// response.
func serve(h *Handler, accept string, failure error, status int) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/render", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req, failure, status)
	return rec
}

// stubFrames wraps err with a fixed set of stack frames.
func stubFrames(err error, frames ...string) error {
	return &stackError{err: err, frames: frames}
}

var errBoom = errors.New("boom: database on fire")
