// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates the interface text of the course site.

Catalogues are GNU gettext .po files embedded under po/, one per locale
(po/es.po, po/pt-BR.po, ...), all in the "aicourse" domain. The English UI
text is the msgid; there are no invented keys:

	i18n.Tr(ctx, "Copy Page")
	i18n.Tr(ctx, "Module {{.Number}}", "Number", m.Number())
	i18n.TrN(ctx, "{{.Count}} article", "{{.Count}} articles", n, "Count", n)

Placeholders use text/template syntax and are filled from alternating
key-value arguments.

Each request carries one language tag, chosen by [FromRequest] from the lang
query parameter, the Lang cookie and the Accept-Language header, in that
order. Missing translations fall back to the msgid. With
internationalization.strictMissingKeys enabled they are logged once per
locale and wrapped in "⟦...⟧" so they stand out on the page.

Article bodies are not translated; only the surrounding interface is.

Run go run ./cmd/i18n_extract to regenerate po/aicourse.pot after changing
UI strings, and add -check to list msgids a locale is missing.
*/
package i18n
