package template

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseError is a positioned template syntax error.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template:%d:%d: %s", e.Line, e.Column, e.Message)
}

// ParserOptions configures parsing.
type ParserOptions struct {
	// DecodeEntities decodes character references in text and attribute
	// values. Nil selects DecodeEntitiesDefault.
	DecodeEntities func(string) string
}

// Parse parses template source into a node list with default options. The
// first syntax error aborts parsing.
func Parse(src string) ([]Node, error) {
	return ParseWithOptions(src, ParserOptions{})
}

// ParseWithOptions parses template source into a node list.
func ParseWithOptions(src string, opts ParserOptions) ([]Node, error) {
	decode := opts.DecodeEntities
	if decode == nil {
		decode = DecodeEntitiesDefault
	}
	p := &parser{src: src, line: 1, col: 1, decode: decode}
	return p.parseChildren("")
}

type parser struct {
	src    string
	pos    int
	line   int
	col    int
	decode func(string) string
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: p.line, Column: p.col}
}

func (p *parser) here() Pos {
	return Pos{Offset: p.pos, Line: p.line, Column: p.col}
}

func (p *parser) rest() string {
	return p.src[p.pos:]
}

func (p *parser) advance(n int) {
	for i := 0; i < n && p.pos < len(p.src); i++ {
		if p.src[p.pos] == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
		p.pos++
	}
}

// parseChildren parses sibling nodes until EOF (top level) or the parent's
// closing tag, which it consumes.
func (p *parser) parseChildren(parent string) ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.src) {
		r := p.rest()
		switch {
		case strings.HasPrefix(r, "{{"):
			n, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		case strings.HasPrefix(r, "<!--"):
			n, err := p.parseComment()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		case strings.HasPrefix(r, "</"):
			name, err := p.parseClosingTag()
			if err != nil {
				return nil, err
			}
			if parent == "" {
				return nil, p.errorf("unexpected closing tag </%s>", name)
			}
			if name != parent {
				return nil, p.errorf("unexpected closing tag </%s>, expected </%s>", name, parent)
			}
			return nodes, nil
		case strings.HasPrefix(r, "<") && len(r) > 1 && isTagStart(r[1]):
			n, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			nodes = append(nodes, p.parseText())
		}
	}
	if parent != "" {
		return nil, p.errorf("unclosed element <%s>", parent)
	}
	return nodes, nil
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *parser) parseInterpolation() (*Interpolation, error) {
	pos := p.here()
	end := strings.Index(p.rest(), "}}")
	if end < 0 {
		return nil, p.errorf("interpolation is missing its closing braces")
	}
	content := strings.TrimSpace(p.src[p.pos+2 : p.pos+end])
	p.advance(end + 2)
	return &Interpolation{Content: content, Pos: pos}, nil
}

func (p *parser) parseComment() (*Comment, error) {
	pos := p.here()
	end := strings.Index(p.rest(), "-->")
	if end < 0 {
		return nil, p.errorf("unterminated comment")
	}
	content := p.src[p.pos+4 : p.pos+end]
	p.advance(end + 3)
	return &Comment{Content: content, Pos: pos}, nil
}

func (p *parser) parseClosingTag() (string, error) {
	p.advance(2)
	name := p.readName()
	p.skipSpace()
	if !strings.HasPrefix(p.rest(), ">") {
		return "", p.errorf("malformed closing tag </%s>", name)
	}
	p.advance(1)
	return name, nil
}

func (p *parser) parseElement() (*Element, error) {
	pos := p.here()
	p.advance(1)
	el := &Element{Tag: p.readName(), Pos: pos}
	for {
		p.skipSpace()
		r := p.rest()
		switch {
		case r == "":
			return nil, p.errorf("unterminated tag <%s>", el.Tag)
		case strings.HasPrefix(r, "/>"):
			p.advance(2)
			el.SelfClosing = true
			return el, nil
		case strings.HasPrefix(r, ">"):
			p.advance(1)
			if voidTags[strings.ToLower(el.Tag)] {
				return el, nil
			}
			children, err := p.parseChildren(el.Tag)
			if err != nil {
				return nil, err
			}
			el.Children = children
			return el, nil
		default:
			attr, err := p.parseAttr()
			if err != nil {
				return nil, err
			}
			el.Attrs = append(el.Attrs, attr)
		}
	}
}

func (p *parser) parseAttr() (Attr, error) {
	attr := Attr{Pos: p.here()}
	attr.Name = p.readAttrName()
	if attr.Name == "" {
		return Attr{}, p.errorf("expected an attribute name")
	}
	p.skipSpace()
	if !strings.HasPrefix(p.rest(), "=") {
		return attr, nil
	}
	p.advance(1)
	p.skipSpace()
	value, err := p.readAttrValue()
	if err != nil {
		return Attr{}, err
	}
	attr.Value = p.decode(value)
	attr.HasValue = true
	return attr, nil
}

func (p *parser) readAttrValue() (string, error) {
	r := p.rest()
	if r == "" {
		return "", p.errorf("expected an attribute value")
	}
	if q := r[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(r[1:], q)
		if end < 0 {
			return "", p.errorf("unterminated attribute value")
		}
		v := r[1 : 1+end]
		p.advance(end + 2)
		return v, nil
	}
	end := len(r)
	for i := 0; i < len(r); i++ {
		if isSpace(r[i]) || r[i] == '>' {
			end = i
			break
		}
	}
	if end == 0 {
		return "", p.errorf("expected an attribute value")
	}
	v := r[:end]
	p.advance(end)
	return v, nil
}

// readName reads a tag name: letters, digits, '-', '_', '.'.
func (p *parser) readName() string {
	r := p.rest()
	end := 0
	for end < len(r) {
		c := r[end]
		if isTagStart(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.' {
			end++
			continue
		}
		break
	}
	name := r[:end]
	p.advance(end)
	return name
}

// readAttrName reads up to whitespace, '=', '>' or "/>". Directive
// punctuation (':', '@', '#', '.', '[', ']') passes through untouched.
func (p *parser) readAttrName() string {
	r := p.rest()
	end := 0
	for end < len(r) {
		c := r[end]
		if isSpace(c) || c == '=' || c == '>' {
			break
		}
		if c == '/' && end+1 < len(r) && r[end+1] == '>' {
			break
		}
		end++
	}
	name := r[:end]
	p.advance(end)
	return name
}

func (p *parser) parseText() *Text {
	pos := p.here()
	end := len(p.src)
	for i := p.pos + 1; i < len(p.src); i++ {
		if p.src[i] == '<' || strings.HasPrefix(p.src[i:], "{{") {
			end = i
			break
		}
	}
	raw := p.src[p.pos:end]
	p.advance(end - p.pos)
	return &Text{Content: p.decode(raw), Pos: pos}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.advance(1)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// DecodeEntitiesDefault resolves named and numeric character entities and
// NFC-normalizes the result, so that visually identical templates compile
// identically.
func DecodeEntitiesDefault(s string) string {
	return norm.NFC.String(html.UnescapeString(s))
}
