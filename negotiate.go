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

import "strings"

// acceptValues parses an Accept header and returns the media ranges in
// the order the client listed them, lowercased and with parameters
// stripped. Empty entries are dropped.
//
// The list order is preserved as stated by the client: quality (q=)
// parameters are deliberately not used to re-sort entries. Strict
// client-preference order is the compatibility contract here, so a
// client sending "application/json;q=0.9, text/html;q=1.0" gets JSON
// attempted first.
func acceptValues(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, mediaType(part))
	}
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// mediaType reduces a media range to its bare type/subtype: parameters
// removed, whitespace trimmed, lowercased.
func mediaType(value string) string {
	if semi := strings.IndexByte(value, ';'); semi != -1 {
		value = value[:semi]
	}
	return strings.ToLower(strings.TrimSpace(value))
}

// negotiate drives the fallback chain for a failing request: the
// response's own Content-Type is attempted first, then each of the
// client's acceptable media types in their stated order, and finally
// plain text, which never declines. Negotiation short-circuits on the
// first strategy that renders.
func (h *Handler) negotiate(ec *errorContext) {
	if mime := ec.res.Header().Get("Content-Type"); mime != "" && h.render(ec, mime) {
		return
	}
	for _, mime := range ec.accepts {
		if h.render(ec, mime) {
			return
		}
	}
	// fallback text/plain
	h.render(ec, "text/plain")
}
