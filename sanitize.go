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

// sanitize strips all markup from raw, leaving safe text and entities
// only. It is applied to every string interpolated into the HTML
// template and nowhere else: JSON, plain-text, and image output are not
// markup contexts.
func (h *Handler) sanitize(raw string) string {
	return h.sanitizer.Sanitize(raw)
}
