// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract collects the msgids passed to i18n.Tr and i18n.TrN
// and writes them to a gettext template (po/aicourse.pot).
//
// With -check it also reports, per .po file next to the template, the msgids
// that have no translation, and exits with status 1 if there are any.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"io"
	"log"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/tools/go/packages"
)

const (
	poDomain = "aicourse"
	i18nPkg  = "github.com/ashiffxd/LLM-Internals/i18n"
)

// key is a gettext entry. plural is empty for entries without plural forms.
type key struct {
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

func main() {
	outPath := flag.String("o", "po/"+poDomain+".pot", "output file")
	check := flag.Bool("check", false, "report msgids missing from the .po files next to the output file")
	flag.Parse()

	root := projectRoot()

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Dir: root}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	refs := map[key][]ref{}
	for _, p := range pkgs {
		collect(p, root, refs)
	}

	keys := sortedKeys(refs)

	var sb strings.Builder
	writePOT(&sb, keys, refs, version(root), time.Now().UTC())

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := os.WriteFile(*outPath, []byte(sb.String()), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *outPath, err)
	}

	log.Printf("wrote %d msgids to %s", len(keys), *outPath)

	if !*check {
		return
	}

	missing, err := missingTranslations(filepath.Dir(*outPath), keys)
	if err != nil {
		log.Fatalf("failed to check translations: %v", err)
	}

	for _, locale := range slices.Sorted(maps.Keys(missing)) {
		for _, k := range missing[locale] {
			log.Printf("%s: missing translation for %q", locale, k.id)
		}
	}

	if len(missing) > 0 {
		os.Exit(1)
	}
}

// collect records every constant msgid passed to i18n.Tr or i18n.TrN in p.
func collect(p *packages.Package, root string, refs map[key][]ref) {
	if p.TypesInfo == nil {
		return
	}

	for _, f := range p.Syntax {
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			k, pos, ok := msgidOf(p.TypesInfo, call)
			if !ok {
				return true
			}

			position := p.Fset.Position(pos)

			file := position.Filename
			if rel, err := filepath.Rel(root, file); err == nil {
				file = rel
			}

			refs[k] = append(refs[k], ref{file: filepath.ToSlash(file), line: position.Line})

			return true
		})
	}
}

// msgidOf reports the entry of a call to i18n.Tr(ctx, msgid, ...) or
// i18n.TrN(ctx, singular, plural, n, ...) with constant message arguments.
func msgidOf(info *types.Info, call *ast.CallExpr) (key, token.Pos, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return key{}, token.NoPos, false
	}

	fn, ok := info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != i18nPkg {
		return key{}, token.NoPos, false
	}

	switch fn.Name() {
	case "Tr":
		if len(call.Args) < 2 {
			return key{}, token.NoPos, false
		}

		id, ok := constString(info, call.Args[1])

		return key{id: id}, call.Args[1].Pos(), ok
	case "TrN":
		if len(call.Args) < 4 {
			return key{}, token.NoPos, false
		}

		id, ok1 := constString(info, call.Args[1])
		plural, ok2 := constString(info, call.Args[2])

		return key{id: id, plural: plural}, call.Args[1].Pos(), ok1 && ok2
	}

	return key{}, token.NoPos, false
}

// constString evaluates expr when it is a constant string expression.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

func sortedKeys(refs map[key][]ref) []key {
	keys := slices.Collect(maps.Keys(refs))

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(strings.Compare(a.id, b.id), strings.Compare(a.plural, b.plural))
	})

	return keys
}

// writePOT writes the template header followed by one entry per key, with
// deduplicated file:line references.
func writePOT(w io.Writer, keys []key, refs map[key][]ref, version string, now time.Time) {
	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)
	fmt.Fprintf(w, "\"Project-Id-Version: aicourse %s\\n\"\n", version)
	fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", now.Format("2006-01-02 15:04-0700"))
	fmt.Fprintln(w, `"Language: en\n"`)
	fmt.Fprintln(w, `"Report-Msgid-Bugs-To: https://github.com/ashiffxd/LLM-Internals/issues\n"`)
	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(w, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(w, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)

	for _, k := range keys {
		rs := slices.Clone(refs[k])
		slices.SortFunc(rs, func(a, b ref) int {
			return cmp.Or(strings.Compare(a.file, b.file), a.line-b.line)
		})
		rs = slices.Compact(rs)

		fmt.Fprint(w, "\n#:")

		for _, r := range rs {
			fmt.Fprintf(w, " %s:%d", r.file, r.line)
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "msgid %q\n", k.id)

		if k.plural == "" {
			fmt.Fprintln(w, `msgstr ""`)

			continue
		}

		fmt.Fprintf(w, "msgid_plural %q\n", k.plural)
		fmt.Fprintln(w, `msgstr[0] ""`)
		fmt.Fprintln(w, `msgstr[1] ""`)
	}
}

// missingTranslations loads every .po file in dir and returns, per locale file
// name, the keys that have no translation. Locales with full coverage are omitted.
func missingTranslations(dir string, keys []key) (map[string][]key, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]key)

	for _, entry := range entries {
		locale, ok := strings.CutSuffix(entry.Name(), ".po")
		if entry.IsDir() || !ok {
			continue
		}

		po := gotext.NewPo()
		po.ParseFile(filepath.Join(dir, entry.Name()))

		loc := gotext.NewLocale("", locale)
		loc.AddTranslator(poDomain, po)

		for _, k := range keys {
			// n == 1 selects msgstr[0] under every shipped plural formula.
			if !loc.IsTranslatedND(poDomain, k.id, 1) {
				out[locale] = append(out[locale], k)
			}
		}
	}

	return out, nil
}

// projectRoot returns the git top level, or the working directory outside a checkout.
func projectRoot() string {
	if out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	return wd
}

// version describes the checkout with git describe, or "dev".
func version(root string) string {
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	cmd.Dir = root

	out, err := cmd.Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}
