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

// Package errorpage renders internal failures as content-negotiated
// HTTP error responses: HTML, JSON, plain text, SVG, or PNG.
//
// The package is framework-agnostic and works with any net/http
// handler. A failure plus an ambient status code is classified into a
// normalized error descriptor, then a format is negotiated: the
// response's own Content-Type first, then the client's Accept entries
// in their stated order, and finally plain text, which always succeeds.
//
// # Quick Start
//
//	h := errorpage.New()
//
//	func renderDiagram(w http.ResponseWriter, r *http.Request) {
//		diagram, err := decode(r)
//		if err != nil {
//			h.Handle(w, r, errorpage.NewBadRequest(err.Error()), 0)
//			return
//		}
//		// ...
//	}
//
// Or as panic-recovery middleware:
//
//	mux.Handle("/render", h.Middleware(renderHandler))
//	mux.Handle("/", h.NotFound())
//
// # Failure Classification
//
// Failures are dispatched over a closed set of variants:
//
//   - BadRequest: 400, message always shown
//   - ServiceUnavailable: 503, message always shown
//   - IllegalState: 500, message always shown
//   - anything else: the ambient status code (coerced into [400, 599]),
//     message hidden unless WithDetails(true)
//
// Detail disclosure — raw messages of generic failures and stack
// frames in every format — is gated entirely by the startup-time
// WithDetails option and is off by default.
//
// # Negotiation Order
//
// Accept entries are attempted in the order the client listed them.
// Quality (q=) values are deliberately not used for re-sorting; strict
// client-preference order is part of the compatibility contract.
//
// # Image Formats
//
// SVG and PNG responses contain the same composed text as the
// plain-text body. An image generation failure is logged as a warning
// and treated as a negotiation decline, never as a request failure.
package errorpage
