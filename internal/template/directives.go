package template

import "strings"

// directive is an attribute in directive form, shorthands expanded.
type directive struct {
	name       string // bind, on, slot, if, for, custom names
	arg        string
	dynamicArg bool // arg was written [expr]
	mods       []string
	value      string
	hasValue   bool
	pos        Pos
}

// parseDirective classifies an attribute. Plain attributes return nil.
func parseDirective(a *Attr) *directive {
	d := &directive{value: a.Value, hasValue: a.HasValue, pos: a.Pos}
	switch {
	case strings.HasPrefix(a.Name, ":"):
		d.name = "bind"
		d.parseArg(a.Name[1:])
	case strings.HasPrefix(a.Name, "@"):
		d.name = "on"
		d.parseArg(a.Name[1:])
	case strings.HasPrefix(a.Name, "#"):
		d.name = "slot"
		d.parseArg(a.Name[1:])
	case strings.HasPrefix(a.Name, "v-"):
		rest := a.Name[2:]
		if colon := strings.IndexByte(rest, ':'); colon >= 0 {
			d.name = rest[:colon]
			d.parseArg(rest[colon+1:])
		} else {
			parts := strings.Split(rest, ".")
			d.name = parts[0]
			d.mods = append(d.mods, parts[1:]...)
		}
	default:
		return nil
	}
	return d
}

// parseArg splits "arg.mod1.mod2"; a [expr] arg keeps its inner dots.
func (d *directive) parseArg(s string) {
	if strings.HasPrefix(s, "[") {
		if end := strings.IndexByte(s, ']'); end >= 0 {
			d.arg = s[1:end]
			d.dynamicArg = true
			s = strings.TrimPrefix(s[end+1:], ".")
			if s != "" {
				d.mods = append(d.mods, strings.Split(s, ".")...)
			}
			return
		}
	}
	parts := strings.Split(s, ".")
	d.arg = parts[0]
	d.mods = append(d.mods, parts[1:]...)
}

func (d *directive) hasMod(name string) bool {
	for _, m := range d.mods {
		if m == name {
			return true
		}
	}
	return false
}

// findDir returns the first attribute forming the named directive, or nil.
func findDir(el *Element, name string) *directive {
	for i := range el.Attrs {
		if d := parseDirective(&el.Attrs[i]); d != nil && d.name == name {
			return d
		}
	}
	return nil
}

// camelize converts kebab-case to camelCase.
func camelize(s string) string {
	var b strings.Builder
	up := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			up = true
			continue
		}
		if up && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		up = false
		b.WriteByte(c)
	}
	return b.String()
}

// capitalize upper-cases the first byte.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return string(c) + s[1:]
}
