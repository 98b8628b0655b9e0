package jsparse

import "strings"

// Globals whitelisted in template expressions. Anything else resolves
// against the render context.
const globalsAllowList = "Infinity,undefined,NaN,isFinite,isNaN,parseFloat," +
	"parseInt,decodeURI,decodeURIComponent,encodeURI,encodeURIComponent," +
	"Math,Number,Date,Array,Object,Boolean,String,RegExp,Map,Set,JSON,Intl," +
	"BigInt,console,Error,Symbol"

var allowedGlobals = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, g := range strings.Split(globalsAllowList, ",") {
		m[g] = struct{}{}
	}
	return m
}()

// IsGlobalAllowListed reports whether name is a whitelisted JS global.
func IsGlobalAllowListed(name string) bool {
	_, ok := allowedGlobals[name]
	return ok
}

// IsSimpleIdentifier reports whether s is a single bare JS identifier.
func IsSimpleIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '$' || r == '_' || isLetter(r) {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f
}
