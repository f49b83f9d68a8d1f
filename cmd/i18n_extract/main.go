// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract writes a gettext template of every message key
// referenced by Go code building uitext nodes and by the example documents.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/tools/go/packages"

	"codeberg.org/uitext/uitext/document"
)

// key models a gettext entry. Plural entries reuse the key as msgid_plural
// since uitext selects plural forms by quantity, not by English text.
type key struct {
	id     string
	plural bool
}

type ref struct {
	file string
	line int
}

type refs map[key][]ref

// extractor holds the shared state for AST analysis within a package.
type extractor struct {
	refs        refs
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	uitextPkgs  map[string]struct{}
}

func main() {
	outPath := flag.String("o", "assets/po/uitext.pot", "output file")
	docsPath := flag.String("docs", "assets/examples.yaml", "example documents to scan, empty to skip")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	root := findProjectRoot(wd)

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	found := extractRefs(pkgs, root, findUitextPkgPaths(pkgs))

	if *docsPath != "" {
		set, err := document.ReadSet(os.DirFS(filepath.Dir(*docsPath)), filepath.Base(*docsPath))
		if err != nil {
			log.Fatalf("failed to read documents: %v", err)
		}

		rel := *docsPath
		if r, err := filepath.Rel(root, filepath.Join(wd, *docsPath)); err == nil {
			rel = r
		}

		found.addDocuments(filepath.ToSlash(rel), set)
	}

	var b strings.Builder
	writeHeader(&b)
	found.write(&b)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil {
		log.Fatalf("failed to write output file %s: %v", *outPath, err)
	}
}

// extractRefs traverses all Go source files in the given packages looking for
// uitext node constructors with constant keys.
func extractRefs(pkgs []*packages.Package, projectRoot string, uitextPkgs map[string]struct{}) refs {
	found := refs{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:        found,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			uitextPkgs:  uitextPkgs,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				if x, ok := n.(*ast.CallExpr); ok {
					e.handleCallExpr(x)
				}

				return true
			})
		}
	}

	return found
}

// findUitextPkgPaths returns the paths of packages named uitext that define a
// Builder type, regardless of how they are imported or aliased.
func findUitextPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "uitext" || p.Types == nil {
			return
		}

		if _, ok := p.Types.Scope().Lookup("Builder").(*types.TypeName); ok {
			out[p.PkgPath] = struct{}{}
		}
	})

	return out
}

// constString evaluates expr to a constant string if possible.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// handleCallExpr records keys passed to Builder.Format, Builder.Plural,
// NewFormatted and NewPluralized.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok || len(x.Args) == 0 {
		return
	}

	fn, ok := e.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return
	}

	if _, ok := e.uitextPkgs[fn.Pkg().Path()]; !ok {
		return
	}

	var plural bool

	switch fn.Name() {
	case "Format", "NewFormatted":
	case "Plural", "NewPluralized":
		plural = true
	default:
		return
	}

	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		if !isBuilder(sig.Recv().Type()) {
			return
		}
	}

	if msg, ok := constString(e.info, x.Args[0]); ok {
		e.addRef(x.Args[0].Pos(), msg, plural)
	}
}

func isBuilder(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := t.(*types.Named)

	return ok && named.Obj().Name() == "Builder"
}

// addRef records a reference to a key, normalising the file path relative
// to the computed project root.
func (e *extractor) addRef(pos token.Pos, msg string, plural bool) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
		file = rel
	}

	k := key{id: msg, plural: plural}
	e.refs[k] = append(e.refs[k], ref{file: filepath.ToSlash(file), line: p.Line})
}

// addDocuments records every key used by the documents in set. Documents
// carry no line information, so references name the file only.
func (r refs) addDocuments(file string, set *document.Set) {
	plural := make(map[string]bool)
	for _, k := range set.PluralKeys() {
		plural[k] = true
	}

	for _, k := range set.Keys() {
		id := key{id: k, plural: plural[k]}
		r[id] = append(r[id], ref{file: file})
	}
}

// write emits the entries of r in key order.
func (r refs) write(w io.Writer) {
	keys := make([]key, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}

		return !keys[i].plural && keys[j].plural
	})

	for i, k := range keys {
		rs := r[k]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].file != rs[j].file {
				return rs[i].file < rs[j].file
			}

			return rs[i].line < rs[j].line
		})

		fmt.Fprint(w, "#:")

		var last ref

		for n, rf := range rs {
			if n > 0 && rf == last {
				continue
			}

			if rf.line > 0 {
				fmt.Fprintf(w, " %s:%d", rf.file, rf.line)
			} else {
				fmt.Fprintf(w, " %s", rf.file)
			}

			last = rf
		}

		fmt.Fprintln(w)
		fmt.Fprintf(w, "msgid %q\n", k.id)

		if k.plural {
			fmt.Fprintf(w, "msgid_plural %q\n", k.id)
			fmt.Fprintf(w, "msgstr[0] \"\"\n")
			fmt.Fprintf(w, "msgstr[1] \"\"\n")
		} else {
			fmt.Fprintf(w, "msgstr \"\"\n")
		}

		if i < len(keys)-1 {
			fmt.Fprintln(w)
		}
	}
}

// writeHeader emits a POT header.
func writeHeader(w io.Writer) {
	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)
	fmt.Fprintf(w, "\"Project-Id-Version: uitext %s\\n\"\n", detectVersion())
	fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", time.Now().UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(w, `"Language: en\n"`)
	fmt.Fprintln(w, `"Report-Msgid-Bugs-To: https://codeberg.org/uitext/uitext/issues\n"`)
	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(w, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(w, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)
	fmt.Fprintln(w)
}

// detectVersion resolves a version string using git describe.
// Falls back to "dev" outside a git checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot prefers the git toplevel, then the nearest directory
// holding go.mod, then wd itself.
func findProjectRoot(wd string) string {
	if root := gitTopLevel(wd); root != "" {
		return root
	}

	if root := nearestGoModDir(wd); root != "" {
		return root
	}

	return wd
}

func gitTopLevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return ""
	}

	return filepath.Clean(root)
}

func nearestGoModDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && !fi.IsDir()
}
