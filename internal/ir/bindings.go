package ir

import "fmt"

// BindingType classifies where a template identifier's value originates.
// Each origin needs a distinct access path in generated code.
type BindingType string

const (
	// BindingSetupConst is a constant binding that can never be a ref.
	BindingSetupConst BindingType = "setup-const"
	// BindingSetupRef is a binding that is guaranteed to be a ref.
	BindingSetupRef BindingType = "setup-ref"
	// BindingSetupMaybeRef is a constant binding that may or may not be a ref.
	BindingSetupMaybeRef BindingType = "setup-maybe-ref"
	// BindingSetupLet is a let binding; it may be reassigned, and may or may
	// not be a ref.
	BindingSetupLet BindingType = "setup-let"
	// BindingProps is a declared component prop.
	BindingProps BindingType = "props"
	// BindingData is a returned data() property.
	BindingData BindingType = "data"
	// BindingOptions is a binding from any other component option.
	BindingOptions BindingType = "options"
)

// ValidBindingTypes lists every accepted binding classification.
var ValidBindingTypes = []BindingType{
	BindingSetupConst,
	BindingSetupRef,
	BindingSetupMaybeRef,
	BindingSetupLet,
	BindingProps,
	BindingData,
	BindingOptions,
}

// ParseBindingType validates a binding classification string.
func ParseBindingType(s string) (BindingType, error) {
	for _, b := range ValidBindingTypes {
		if BindingType(s) == b {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid binding type %q: must be one of %v", s, ValidBindingTypes)
}

// BindingMetadata maps identifier names to their origin. It is immutable
// for the duration of one compilation.
type BindingMetadata map[string]BindingType
