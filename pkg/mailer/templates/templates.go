package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"sync"
)

//go:embed *.html
var FS embed.FS

// OTPEmail is the template that renders the registration passcode email.
const OTPEmail = "otp-email"

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		if rv.IsZero() {
			return fallback
		}
		return value
	}
}

var funcMap = htmpl.FuncMap{
	"default": defaultFn,
}

// Renderer resolves "<name><suffix>" inside a template root and executes it
// with html/template. Parsed templates are cached per name.
type Renderer struct {
	root   fs.FS
	suffix string

	mu    sync.RWMutex
	cache map[string]*htmpl.Template
}

// NewRenderer uses dir as template root, or the embedded templates when dir
// is empty. Only UTF-8 encoded templates are supported.
func NewRenderer(dir, suffix, encoding string) (*Renderer, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "", "utf8":
	default:
		return nil, fmt.Errorf("unsupported template encoding %q", encoding)
	}
	if suffix == "" {
		suffix = ".html"
	}
	var root fs.FS = FS
	if dir != "" {
		st, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("template dir: %w", err)
		}
		if !st.IsDir() {
			return nil, fmt.Errorf("template dir %q is not a directory", dir)
		}
		root = os.DirFS(dir)
	}
	return &Renderer{root: root, suffix: suffix, cache: make(map[string]*htmpl.Template)}, nil
}

func (r *Renderer) lookup(name string) (*htmpl.Template, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	filename := name + r.suffix
	tpl, err := htmpl.New(filename).Funcs(funcMap).ParseFS(r.root, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", filename, err)
	}
	r.mu.Lock()
	r.cache[name] = tpl
	r.mu.Unlock()
	return tpl, nil
}

// Render executes the named template with vars bound as top-level keys.
func (r *Renderer) Render(name string, vars map[string]any) (string, error) {
	tpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}
