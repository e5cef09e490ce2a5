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
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"
	"unicode/utf8"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageError reports a failure inside the image rendering engine. It is
// an internal-bug signal: callers log it and decline the format instead
// of surfacing it to the client.
type ImageError struct {
	Op  string // "svg" or "png"
	Err error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("errorpage: %s image generation: %v", e.Op, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// Layout constants for the monospace face used by both image paths
// (basicfont.Face7x13: 7px advance, 13px line height).
const (
	glyphWidth   = 7
	lineHeight   = 13
	imagePadding = 10

	// maxImageCols is the wrap column for long lines.
	maxImageCols = 120

	// maxImageChars bounds the input text; anything larger is treated
	// as a generation failure and degrades to a negotiation decline.
	maxImageChars = 4096
)

var textGray = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// layoutText splits text into drawable lines: tabs expanded, long lines
// wrapped at maxImageCols. Fails when the input is oversized or is not
// valid UTF-8.
func layoutText(op, text string) ([]string, error) {
	if len(text) > maxImageChars {
		return nil, &ImageError{Op: op, Err: fmt.Errorf("text too large: %d bytes (max %d)", len(text), maxImageChars)}
	}
	if !utf8.ValidString(text) {
		return nil, &ImageError{Op: op, Err: fmt.Errorf("text is not valid UTF-8")}
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.ReplaceAll(raw, "\t", "    ")
		for utf8.RuneCountInString(line) > maxImageCols {
			runes := []rune(line)
			lines = append(lines, string(runes[:maxImageCols]))
			line = string(runes[maxImageCols:])
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// imageSize computes the pixel dimensions needed to fit lines.
func imageSize(lines []string) (width, height int) {
	cols := 1
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > cols {
			cols = n
		}
	}
	width = cols*glyphWidth + 2*imagePadding
	height = len(lines)*lineHeight + 2*imagePadding
	return width, height
}

// BuildSVG lays out text and returns a self-contained SVG document
// containing it. The generated markup is parsed back before being
// returned; a parse failure means the engine produced malformed output
// and is reported as an ImageError.
func BuildSVG(text string) ([]byte, error) {
	lines, err := layoutText("svg", text)
	if err != nil {
		return nil, err
	}
	width, height := imageSize(lines)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	for i, line := range lines {
		canvas.Text(imagePadding, imagePadding+(i+1)*lineHeight-2, line,
			"font-family:monospace;font-size:13px;fill:#333333")
	}
	canvas.End()

	if err := validateXML(buf.Bytes()); err != nil {
		return nil, &ImageError{Op: "svg", Err: err}
	}
	return buf.Bytes(), nil
}

// validateXML checks that the produced document is well-formed.
func validateXML(doc []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(doc))
	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// BuildPNG lays out text and draws it into a raster image of equivalent
// visual content to BuildSVG. The caller encodes the result.
func BuildPNG(text string) (image.Image, error) {
	lines, err := layoutText("png", text)
	if err != nil {
		return nil, err
	}
	width, height := imageSize(lines)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textGray),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(imagePadding, imagePadding+(i+1)*lineHeight-2)
		drawer.DrawString(line)
	}
	return img, nil
}
