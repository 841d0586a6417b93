// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package diagram

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ErrUnsafeSVG = errors.New("diagram output is not a usable SVG document")

// blockedElements are removed together with their children.
const blockedElements = "script, iframe, object, embed"

// SanitizeSVG extracts the first <svg> element of doc and strips anything
// executable from it.
func SanitizeSVG(doc []byte) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsafeSVG, err)
	}

	svg := parsed.Find("svg").First()
	if svg.Length() == 0 {
		return "", ErrUnsafeSVG
	}

	svg.Find(blockedElements).Remove()
	pruneForeignObjects(svg.Get(0))

	svg.Find("*").AddSelection(svg).Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]

		for _, attr := range node.Attr {
			if isUnsafeAttr(attr) {
				continue
			}

			kept = append(kept, attr)
		}

		node.Attr = kept
	})

	var b strings.Builder
	if err := html.Render(&b, svg.Get(0)); err != nil {
		return "", fmt.Errorf("rendering sanitized svg: %w", err)
	}

	return b.String(), nil
}

// labelElements may appear inside <foreignObject>, where mermaid puts HTML
// labels. Anything else there is dropped with its children.
var labelElements = map[string]bool{
	"b": true, "br": true, "code": true, "div": true, "em": true, "i": true,
	"li": true, "ol": true, "p": true, "span": true, "strong": true, "ul": true,
}

func pruneForeignObjects(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "foreignObject") {
			pruneLabel(c)

			continue
		}

		pruneForeignObjects(c)
	}
}

func pruneLabel(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling

		switch c.Type {
		case html.TextNode:
		case html.ElementNode:
			if labelElements[strings.ToLower(c.Data)] {
				pruneLabel(c)
			} else {
				n.RemoveChild(c)
			}
		default:
			n.RemoveChild(c)
		}

		c = next
	}
}

func isUnsafeAttr(attr html.Attribute) bool {
	key := strings.ToLower(attr.Key)
	if strings.HasPrefix(key, "on") {
		return true
	}

	if key == "href" || strings.HasSuffix(key, ":href") || key == "src" {
		value := urlScheme(attr.Val)

		return strings.HasPrefix(value, "javascript:") ||
			strings.HasPrefix(value, "vbscript:") ||
			strings.HasPrefix(value, "data:text/html")
	}

	return false
}

// urlScheme lowercases v and drops the whitespace and control characters
// browsers ignore inside a URL scheme. Entities are already decoded by the
// parser.
func urlScheme(v string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}

		return unicode.ToLower(r)
	}, v)
}
