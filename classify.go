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
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// Info is the normalized failure descriptor produced by classification.
// Code is always within [400, 599] by the time a renderer sees it.
// HTMLMessage is set only when the failure supplied a dedicated
// HTML-safe message; renderers fall back to sanitizing Message otherwise.
type Info struct {
	// Cause is the original failure, if any.
	Cause error

	// Code is the HTTP status code to send.
	Code int

	// Message is the plain-text error message.
	Message string

	// HTMLMessage is an optional HTML-safe message supplied by the failure.
	HTMLMessage string
}

// BadRequest is a failure caused by invalid client input.
// It classifies as 400 and its message is always shown to the client.
type BadRequest struct {
	Message string

	// MessageHTML optionally carries an HTML-safe rendition of Message.
	MessageHTML string
}

// NewBadRequest creates a BadRequest failure.
func NewBadRequest(message string) *BadRequest {
	return &BadRequest{Message: message}
}

// NewBadRequestHTML creates a BadRequest failure with a dedicated
// HTML-safe message used by the HTML renderer instead of Message.
func NewBadRequestHTML(message, messageHTML string) *BadRequest {
	return &BadRequest{Message: message, MessageHTML: messageHTML}
}

func (e *BadRequest) Error() string {
	return e.Message
}

// ServiceUnavailable is a failure raised when a backing service cannot
// serve the request. It classifies as 503.
type ServiceUnavailable struct {
	Message string

	// MessageHTML optionally carries an HTML-safe rendition of Message.
	MessageHTML string
}

// NewServiceUnavailable creates a ServiceUnavailable failure.
func NewServiceUnavailable(message string) *ServiceUnavailable {
	return &ServiceUnavailable{Message: message}
}

func (e *ServiceUnavailable) Error() string {
	return e.Message
}

// IllegalState is an internal invariant violation. It classifies as 500
// and, unlike a generic failure, its message is shown to the client even
// when detail disclosure is off.
type IllegalState struct {
	Message string
}

// NewIllegalState creates an IllegalState failure.
func NewIllegalState(message string) *IllegalState {
	return &IllegalState{Message: message}
}

func (e *IllegalState) Error() string {
	if e.Message == "" {
		return "Internal Server Error"
	}
	return e.Message
}

// failureKind is the closed set of failure variants the classifier
// dispatches over.
type failureKind int

const (
	kindGeneric failureKind = iota
	kindBadRequest
	kindServiceUnavailable
	kindIllegalState
)

// classifyKind maps a failure to its variant. Wrapped failures are
// unwrapped with errors.As, so hosts may decorate them freely.
func classifyKind(failure error) (failureKind, *BadRequest, *ServiceUnavailable, *IllegalState) {
	var br *BadRequest
	if errors.As(failure, &br) {
		return kindBadRequest, br, nil, nil
	}
	var su *ServiceUnavailable
	if errors.As(failure, &su) {
		return kindServiceUnavailable, nil, su, nil
	}
	var is *IllegalState
	if errors.As(failure, &is) {
		return kindIllegalState, nil, nil, is
	}
	return kindGeneric, nil, nil, nil
}

// classify normalizes a failure and the ambient status code into an Info
// and a human status phrase. It is total: every (failure, code) pair maps
// to a renderable Info and no error escapes.
func (h *Handler) classify(failure error, code int) (Info, string) {
	if code == http.StatusNotFound && failure == nil {
		return Info{Code: http.StatusNotFound, Message: "Not Found"}, "Not Found"
	}

	kind, br, su, is := classifyKind(failure)
	switch kind {
	case kindBadRequest:
		return Info{
			Cause:       failure,
			Code:        http.StatusBadRequest,
			Message:     br.Message,
			HTMLMessage: br.MessageHTML,
		}, "Bad Request"
	case kindServiceUnavailable:
		return Info{
			Cause:       failure,
			Code:        http.StatusServiceUnavailable,
			Message:     su.Message,
			HTMLMessage: su.MessageHTML,
		}, "Service Unavailable"
	case kindIllegalState:
		return Info{
			Cause:   failure,
			Code:    http.StatusInternalServerError,
			Message: is.Error(),
		}, "Internal Server Error"
	default:
		if code < 400 || code > 599 {
			h.logger.Warn("unexpected status code, falling back to 500",
				"code", code)
			code = http.StatusInternalServerError
		}
		message := "Internal Server Error"
		if h.displayDetails && failure != nil && failure.Error() != "" {
			message = failure.Error()
		}
		return Info{Cause: failure, Code: code, Message: message}, "Internal Server Error"
	}
}

// StackTracer is implemented by failures that carry stack frames.
// Frames are rendered one per line in plain-text and JSON output when
// detail disclosure is enabled.
type StackTracer interface {
	StackTrace() []string
}

// WithStack wraps err with the stack frames of the calling goroutine.
// The returned error unwraps to err.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return &stackError{err: err, frames: captureFrames(2)}
}

type stackError struct {
	err    error
	frames []string
}

func (e *stackError) Error() string {
	return e.err.Error()
}

func (e *stackError) Unwrap() error {
	return e.err
}

func (e *stackError) StackTrace() []string {
	return e.frames
}

// stackFrames extracts frames from a failure, unwrapping as needed.
// Returns nil when the failure carries no stack.
func stackFrames(failure error) []string {
	if failure == nil {
		return nil
	}
	var st StackTracer
	if errors.As(failure, &st) {
		return st.StackTrace()
	}
	return nil
}

// captureFrames records up to 32 frames above skip, excluding runtime
// internals, formatted as "pkg.Func (file:line)".
func captureFrames(skip int) []string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	out := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return out
}
