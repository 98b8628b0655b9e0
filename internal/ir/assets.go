package ir

import "strings"

// AssetID maps a component or directive name to the JS identifier suffix
// used for its resolved binding (e.g. "my-widget" becomes "my_widget", so
// the lookup is emitted as _component_my_widget).
func AssetID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
