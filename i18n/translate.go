// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"

	"github.com/ashiffxd/LLM-Internals/config"
)

// message identifies a msgid, with its plural form when it has one.
type message struct {
	id     string
	plural string
	n      int
}

func (m message) fallback() string {
	if m.plural != "" && m.n != 1 {
		return m.plural
	}

	return m.id
}

var (
	// templates caches parsed placeholder templates by their text.
	templates sync.Map

	// reported holds locale+"\x00"+msgid for missing translations already logged.
	reported sync.Map
)

// Tr translates msgid into the language carried by ctx and fills its
// placeholders from the key-value pairs in kv.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, message{id: msgid}, kv)
}

// TrN picks the singular or plural form for n, translates it and fills its
// placeholders. n is not added to the placeholders implicitly.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, message{id: singular, plural: plural, n: n}, kv)
}

func translate(ctx context.Context, m message, kv []any) string {
	loc, tag := locale(TagFrom(ctx))

	text, ok := lookup(loc, m)
	if !ok {
		text = m.fallback()

		if config.Global.Internationalization.StrictMissingKeys {
			reportMissing(tag, m.id)

			text = "⟦" + text + "⟧"
		}
	}

	return fill(tag, text, kv)
}

func lookup(loc *gotext.Locale, m message) (string, bool) {
	if loc == nil {
		return "", false
	}

	if m.plural != "" {
		if !loc.IsTranslatedND(poDomain, m.id, m.n) {
			return "", false
		}

		return loc.GetND(poDomain, m.id, m.plural, m.n), true
	}

	// Singular entries only carry msgstr[0], which the plural formula picks
	// for n == 1.
	if !loc.IsTranslatedND(poDomain, m.id, 1) {
		return "", false
	}

	return loc.GetND(poDomain, m.id, m.id, 1), true
}

func reportMissing(tag language.Tag, msgid string) {
	if _, seen := reported.LoadOrStore(tag.String()+"\x00"+msgid, struct{}{}); seen {
		return
	}

	logger(tag).Warn().Str("msgid", msgid).Msg("Missing translation")
}

// fill executes text as a template over the key-value pairs in kv.
//
// A malformed template or a missing key returns text unchanged. kv must hold
// string keys at even positions; anything else is a programming error.
func fill(tag language.Tag, text string, kv []any) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	if len(kv)%2 != 0 {
		panic("i18n: odd number of placeholder arguments")
	}

	data := make(map[string]any, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("i18n: placeholder name must be a string")
		}

		data[key] = kv[i+1]
	}

	var tmpl *template.Template

	if cached, ok := templates.Load(text); ok {
		tmpl = cached.(*template.Template)
	} else {
		parsed, err := template.New("msg").Option("missingkey=error").Parse(text)
		if err != nil {
			logger(tag).Error().Err(err).Str("text", text).Msg("Invalid placeholder template")

			return text
		}

		templates.Store(text, parsed)
		tmpl = parsed
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		logger(tag).Error().Err(err).Str("text", text).Msg("Failed to fill placeholders")

		return text
	}

	return sb.String()
}
