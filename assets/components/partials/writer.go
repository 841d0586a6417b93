// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates markup and remembers the first write error.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup.
func (hw *Writer) Raw(parts ...string) {
	for _, p := range parts {
		if hw.err != nil {
			return
		}

		_, hw.err = io.WriteString(hw.w, p)
	}
}

// Text writes s escaped for use in element content or a quoted attribute.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// URL writes a sanitized URL for use in a quoted href or src attribute.
func (hw *Writer) URL(s string) {
	hw.Text(string(templ.URL(s)))
}

// Component renders c in place.
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err != nil {
		return
	}

	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first error encountered.
func (hw *Writer) Err() error {
	return hw.err
}
