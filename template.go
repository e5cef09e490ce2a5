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
	"embed"
	"strings"
)

// Default page assets. The stylesheet and logo are baked into the
// template once at construction; per-request rendering only substitutes
// the error placeholders.
//
//go:embed web/error.html web/main.css web/logo.svg
var defaultAssets embed.FS

// Placeholders substituted per request. Their exact set is a
// compatibility contract: fixtures comparing rendered HTML rely on
// literal token substitution, so no templating engine is used here.
const (
	placeholderTitle      = "{title}"
	placeholderCode       = "{errorCode}"
	placeholderMessage    = "{errorMessage}"
	placeholderStackTrace = "{stackTrace}"
)

func defaultAsset(name string) string {
	data, err := defaultAssets.ReadFile("web/" + name)
	if err != nil {
		// Embedded assets are part of the build; a read failure is a
		// broken binary.
		panic("errorpage: missing embedded asset " + name)
	}
	return string(data)
}

// bakeTemplate resolves the startup-time placeholders, leaving only the
// per-request ones in the cached template.
func bakeTemplate(template, stylesheet, logo string) string {
	template = strings.ReplaceAll(template, "{stylesheet}", stylesheet)
	return strings.ReplaceAll(template, "{logo}", logo)
}
