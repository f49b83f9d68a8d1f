// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import (
	"encoding/json"

	"codeberg.org/uitext/uitext/annotation"
)

type jsonRange struct {
	Start     int                        `json:"start"`
	End       int                        `json:"end"`
	Kind      string                     `json:"kind"`
	Style     *annotation.SpanStyle      `json:"style,omitempty"`
	Paragraph *annotation.ParagraphStyle `json:"paragraph,omitempty"`
	URL       string                     `json:"url,omitempty"`
	Tag       string                     `json:"tag,omitempty"`
}

type jsonText struct {
	Text   string      `json:"text"`
	Ranges []jsonRange `json:"ranges"`
}

// MarshalJSON encodes a as {"text": ..., "ranges": [...]} with byte offsets.
func (a Annotated) MarshalJSON() ([]byte, error) {
	out := jsonText{Text: a.text, Ranges: make([]jsonRange, 0, len(a.ranges))}

	for _, r := range a.ranges {
		jr := jsonRange{Start: r.Start, End: r.End, Kind: r.Annotation.Kind().String()}

		switch v := r.Annotation.(type) {
		case annotation.Span:
			jr.Style = &v.Style
		case annotation.Paragraph:
			jr.Paragraph = &v.Style
		case annotation.Link:
			jr.URL, jr.Tag = v.URL, v.Tag

			if !v.Style.IsZero() {
				jr.Style = &v.Style
			}
		}

		out.Ranges = append(out.Ranges, jr)
	}

	return json.Marshal(out)
}
