// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/ashiffxd/LLM-Internals/server/assets"
)

const (
	// BaseLocale is the language of the msgids themselves.
	BaseLocale = "en"

	poDir    = "po"
	poDomain = "aicourse"
)

var baseTag = language.Make(BaseLocale)

// Logger is the logger used by package i18n.
var Logger = log.Logger

// catalogues is the loaded set of locales. It is replaced as a whole by Setup.
type catalogues struct {
	locales map[string]*gotext.Locale // keyed by canonical BCP 47 tag
	tags    []language.Tag            // baseTag first, then sorted
	matcher language.Matcher
}

var loaded *catalogues

// Setup loads the catalogues embedded in the binary.
func Setup() error {
	return SetupFS(assets.FS)
}

// SetupFS loads every po/<locale>.po file of fsys. Locale file names may use
// hyphens or underscores ("pt-BR.po", "pt_BR.po"). Files whose name is not a
// language tag are skipped with a warning.
//
// Calling SetupFS again replaces the previously loaded catalogues.
func SetupFS(fsys fs.FS) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil {
		return fmt.Errorf("reading %s directory: %w", poDir, err)
	}

	c := &catalogues{locales: make(map[string]*gotext.Locale)}

	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".po")
		if entry.IsDir() || !ok {
			continue
		}

		tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping po file with an invalid locale name")
			continue
		}

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, entry.Name()))

		loc := gotext.NewLocale("", tag.String())
		loc.AddTranslator(poDomain, po)

		c.locales[tag.String()] = loc
		c.tags = append(c.tags, tag)

		Logger.Info().Str("locale", tag.String()).Msg("Loaded locale")
	}

	slices.SortFunc(c.tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	c.tags = slices.DeleteFunc(c.tags, func(t language.Tag) bool { return t == baseTag })
	c.tags = append([]language.Tag{baseTag}, c.tags...)

	// the first tag is the fallback of the matcher
	c.matcher = language.NewMatcher(c.tags)
	loaded = c

	Logger.Debug().Int("count", len(c.tags)).Msg("Catalogues ready")

	return nil
}

// Languages returns the tags that have a catalogue, the base locale first.
// It returns nil before Setup.
func Languages() []language.Tag {
	if loaded == nil {
		return nil
	}

	return slices.Clone(loaded.tags)
}

// locale returns the catalogue that best serves t and the tag it was loaded
// under. The catalogue is nil for the base locale or before Setup.
func locale(t language.Tag) (*gotext.Locale, language.Tag) {
	c := loaded
	if c == nil {
		return nil, baseTag
	}

	// The matched tag may carry a -u-rg extension, so resolve by index.
	_, i := language.MatchStrings(c.matcher, t.String())
	tag := c.tags[i]

	return c.locales[tag.String()], tag
}

// logger returns Logger, annotated for the given locale.
func logger(t language.Tag) *zerolog.Logger {
	l := Logger.With().Str("locale", t.String()).Logger()

	return &l
}
