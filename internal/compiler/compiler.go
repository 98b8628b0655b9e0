// Package compiler wires the pipeline end to end: parse template source,
// lower it to IR, rewrite embedded expressions against binding origin, and
// emit the render function.
package compiler

import (
	"io"
	"strings"

	"github.com/loomlang/loom/internal/codegen"
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/template"
	"github.com/loomlang/loom/internal/transform"
)

// Options configures one compilation.
type Options struct {
	// Filename tags errors; it does not affect output.
	Filename string

	// PrefixIdentifiers rewrites expressions against _ctx and binding
	// metadata instead of relying on a with-block.
	PrefixIdentifiers bool

	// Inline additionally resolves setup bindings in place (ref unwrapping
	// in generated code). Implies identifier prefixing.
	Inline bool

	// Bindings classifies identifier origins for the rewrite.
	Bindings ir.BindingMetadata

	// RuntimeGlobal overrides the global the helper preamble destructures
	// from. Empty means "Vue".
	RuntimeGlobal string

	// DecodeEntities overrides how character references in template text
	// and attribute values are decoded. Nil selects the default decoder.
	DecodeEntities func(string) string

	// IsTS and SourceMap are accepted for option-set compatibility and
	// carried through unchanged; neither affects the generated code.
	IsTS      bool
	SourceMap bool
}

// Compile compiles template source and writes the render function to w.
func Compile(w io.Writer, source string, opts Options) error {
	nodes, err := template.ParseWithOptions(source, template.ParserOptions{
		DecodeEntities: opts.DecodeEntities,
	})
	if err != nil {
		return wrapError(err, opts.Filename)
	}
	root, err := template.Convert(nodes)
	if err != nil {
		return wrapError(err, opts.Filename)
	}
	prefix := opts.PrefixIdentifiers || opts.Inline
	tr := transform.NewTransformer(&transform.ExpressionProcessor{
		Option: &transform.Options{
			PrefixIdentifiers: prefix,
			Inline:            opts.Inline,
			Bindings:          opts.Bindings,
		},
	})
	if err := tr.Transform(root); err != nil {
		return wrapError(err, opts.Filename)
	}
	cw := codegen.NewWriter(w, codegen.Options{
		PrefixIdentifiers: prefix,
		RuntimeGlobal:     opts.RuntimeGlobal,
	})
	if err := cw.GenerateRoot(root); err != nil {
		return wrapError(err, opts.Filename)
	}
	return nil
}

// CompileString is Compile into a string.
func CompileString(source string, opts Options) (string, error) {
	var sb strings.Builder
	if err := Compile(&sb, source, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
