// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/ashiffxd/LLM-Internals/core/cookie"
	"github.com/ashiffxd/LLM-Internals/core/untrusted"
)

// LangParam is the query parameter that selects the interface language for
// a single request. "auto" ignores the Lang cookie.
const LangParam = "lang"

type tagKey struct{}

// WithTag returns a copy of ctx that carries t.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFrom returns the tag carried by ctx, or the base locale.
func TagFrom(ctx context.Context) language.Tag {
	if ctx == nil {
		return baseTag
	}

	if t, ok := ctx.Value(tagKey{}).(language.Tag); ok && t != (language.Tag{}) {
		return t
	}

	return baseTag
}

// FromRequest picks the interface language for r from, in order, the lang
// query parameter, the Lang cookie and the Accept-Language header.
//
// Before Setup, or for a nil request, it returns the base locale.
func FromRequest(r *http.Request) language.Tag {
	c := loaded
	if r == nil || c == nil {
		return baseTag
	}

	var preferred []string

	param := r.URL.Query().Get(LangParam)
	auto := strings.EqualFold(param, "auto")

	if param != "" && !auto {
		preferred = append(preferred, param)
	}

	if !auto {
		if v := untrusted.GetCookie(r, cookie.LangCookie); v != "" {
			preferred = append(preferred, v)
		}
	}

	if v := r.Header.Get("Accept-Language"); v != "" {
		preferred = append(preferred, v)
	}

	tag, _ := language.MatchStrings(c.matcher, preferred...)

	return tag
}

// WithRequest is WithTag(ctx, FromRequest(r)).
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
