package pages

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

//go:embed markup/*.html
var embedded embed.FS

type page struct {
	kind   Kind
	markup []byte
}

// Registry holds the page markup, classified once at startup. Every request
// gets its own freshly parsed document, so no DOM state outlives a page load.
type Registry struct {
	pages map[string]page
}

// Load reads the built-in pages, then lets every *.html in dir (if any)
// replace or add to them.
func Load(dir string) (*Registry, error) {
	sub, err := fs.Sub(embedded, "markup")
	if err != nil {
		return nil, err
	}
	reg := &Registry{pages: map[string]page{}}
	if err := reg.addFS(sub); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := reg.addFS(os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("pages dir %s: %w", dir, err)
		}
	}
	return reg, nil
}

func (r *Registry) addFS(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return err
	}
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = page{kind: DetectKind(doc), markup: b}
	}
	return nil
}

// Open returns a fresh document for name ("place.html") and its kind.
func (r *Registry) Open(name string) (*goquery.Document, Kind, error) {
	p, ok := r.pages[path.Base(name)]
	if !ok {
		return nil, Unknown, fs.ErrNotExist
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.markup))
	if err != nil {
		return nil, Unknown, err
	}
	return doc, p.kind, nil
}

func (r *Registry) Kind(name string) (Kind, bool) {
	p, ok := r.pages[path.Base(name)]
	return p.kind, ok
}

// Names lists the registered pages, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.pages))
	for n := range r.pages {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) String() string {
	parts := make([]string, 0, len(r.pages))
	for _, n := range r.Names() {
		parts = append(parts, n+"="+r.pages[n].kind.String())
	}
	return strings.Join(parts, " ")
}
