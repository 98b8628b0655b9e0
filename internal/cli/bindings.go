package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/loomlang/loom/internal/ir"
)

// LoadBindings reads a CUE binding manifest. The manifest maps identifier
// names to binding kinds under a top-level `bindings` struct:
//
//	bindings: {
//		msg:   "setup-ref"
//		count: "setup-let"
//	}
func LoadBindings(path string) (ir.BindingMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binding manifest: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parsing binding manifest: %w", err)
	}

	root := v.LookupPath(cue.ParsePath("bindings"))
	if !root.Exists() {
		return nil, fmt.Errorf("binding manifest %s has no `bindings` struct", path)
	}
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("binding manifest: %w", err)
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, fmt.Errorf("binding manifest: %w", err)
	}
	bindings := ir.BindingMetadata{}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		kind, err := iter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		bt, err := ir.ParseBindingType(kind)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		bindings[name] = bt
	}
	return bindings, nil
}
