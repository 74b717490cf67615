// Package template implements the small typed template used by variation
// plugins.
//
// A template is plain WGSL with {{name}} placeholder tokens. It is parsed
// once, at catalog registration, into a sequence of literal segments and
// tokens; executing it only concatenates segments with the text each token
// resolves to. There is no expression language: a token names a value, and
// the caller decides how that value is rendered.
//
//	t := template.MustParse("vOut.x += {{weight}} * sin(vIn.x * {{freq}});")
//	src, err := t.Execute(func(name string) (string, bool) { ... })
package template

import (
	"fmt"
	"strings"

	"github.com/matzehuels/flamelink/pkg/errors"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Segment is either literal text or a placeholder token.
type Segment struct {
	Text        string
	Placeholder bool
}

// Template is a parsed plugin template.
type Template struct {
	src      string
	segments []Segment
	names    []string
}

// Resolver maps a placeholder name to its rendered text.
type Resolver func(name string) (string, bool)

// UnboundError reports a placeholder the resolver could not satisfy.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("placeholder %q has no value", e.Name)
}

// Parse splits src into literal segments and placeholder tokens.
func Parse(src string) (*Template, error) {
	t := &Template{src: src}
	seen := make(map[string]bool)
	rest := src
	for {
		i := strings.Index(rest, openDelim)
		if i < 0 {
			t.appendText(rest)
			break
		}
		t.appendText(rest[:i])
		rest = rest[i+len(openDelim):]

		j := strings.Index(rest, closeDelim)
		if j < 0 {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "unterminated placeholder at offset %d", len(src)-len(rest)-len(openDelim))
		}
		name := strings.TrimSpace(rest[:j])
		if !validName(name) {
			return nil, errors.New(errors.ErrCodeInvalidTemplate, "invalid placeholder %q", rest[:j])
		}
		t.segments = append(t.segments, Segment{Text: name, Placeholder: true})
		if !seen[name] {
			seen[name] = true
			t.names = append(t.names, name)
		}
		rest = rest[j+len(closeDelim):]
	}
	return t, nil
}

// MustParse is like Parse but panics on error. It is meant for catalog
// bootstrap, where templates are fixed source text.
func MustParse(src string) *Template {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) appendText(s string) {
	if s == "" {
		return
	}
	t.segments = append(t.segments, Segment{Text: s})
}

// Source returns the unparsed template text.
func (t *Template) Source() string { return t.src }

// Segments returns the parsed segments in order.
func (t *Template) Segments() []Segment { return t.segments }

// Placeholders returns each placeholder name once, in first-use order.
func (t *Template) Placeholders() []string { return t.names }

// Execute renders the template, resolving every token through resolve.
func (t *Template) Execute(resolve Resolver) (string, error) {
	var b strings.Builder
	b.Grow(len(t.src))
	for _, seg := range t.segments {
		if !seg.Placeholder {
			b.WriteString(seg.Text)
			continue
		}
		v, ok := resolve(seg.Text)
		if !ok {
			return "", &UnboundError{Name: seg.Text}
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return !strings.HasSuffix(name, ".")
}
