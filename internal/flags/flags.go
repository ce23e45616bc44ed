// Package flags reads typed values out of host documents.
//
// Host documents carry free-form JSON under a "flags" object. Every accessor
// here fails closed: a missing, mistyped or malformed value yields the zero
// value and false, never a panic or a guess.
package flags

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// Scope is the flags namespace this module writes under
const Scope = "dnd-vtt-automation"

// Well-known keys under the module scope
const (
	KeySpell         = "spell"
	KeyInteractionID = "interactionId"
	KeyCondition     = "condition"
	KeyCasterID      = "casterId"
	KeyRounds        = "rounds"
	KeySaveDC        = "saveDc"
)

func lookup(doc []byte, path string) (gjson.Result, bool) {
	if len(doc) == 0 || path == "" || !gjson.ValidBytes(doc) {
		return gjson.Result{}, false
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return gjson.Result{}, false
	}
	return res, true
}

// String returns the string at path
func String(doc []byte, path string) (string, bool) {
	res, ok := lookup(doc, path)
	if !ok || res.Type != gjson.String {
		return "", false
	}
	return res.Str, true
}

// Bool returns the boolean at path
func Bool(doc []byte, path string) (bool, bool) {
	res, ok := lookup(doc, path)
	if !ok {
		return false, false
	}
	switch res.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	default:
		return false, false
	}
}

// Int returns the integral number at path. Fractional numbers are rejected.
func Int(doc []byte, path string) (int, bool) {
	res, ok := lookup(doc, path)
	if !ok || res.Type != gjson.Number {
		return 0, false
	}
	if res.Num != math.Trunc(res.Num) || math.Abs(res.Num) > math.MaxInt32 {
		return 0, false
	}
	return int(res.Num), true
}

// Float returns the number at path
func Float(doc []byte, path string) (float64, bool) {
	res, ok := lookup(doc, path)
	if !ok || res.Type != gjson.Number {
		return 0, false
	}
	return res.Num, true
}

// Strings returns the array of strings at path. Any non-string element fails
// the whole lookup.
func Strings(doc []byte, path string) ([]string, bool) {
	res, ok := lookup(doc, path)
	if !ok || !res.IsArray() {
		return nil, false
	}

	items := res.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, false
		}
		out = append(out, item.Str)
	}
	return out, true
}

// Raw returns the raw JSON at path, for nested objects
func Raw(doc []byte, path string) ([]byte, bool) {
	res, ok := lookup(doc, path)
	if !ok || res.Type == gjson.Null {
		return nil, false
	}
	return []byte(res.Raw), true
}

// ModulePath builds the path to a module-scoped key under prefix. An empty
// prefix means the flags object sits at the document root.
func ModulePath(prefix, key string) string {
	parts := make([]string, 0, 4)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, "flags", Scope, key)
	return strings.Join(parts, ".")
}

// ModuleString reads a module-scoped string flag
func ModuleString(doc []byte, prefix, key string) (string, bool) {
	return String(doc, ModulePath(prefix, key))
}

// ModuleBool reads a module-scoped boolean flag
func ModuleBool(doc []byte, prefix, key string) (bool, bool) {
	return Bool(doc, ModulePath(prefix, key))
}

// ModuleInt reads a module-scoped integer flag
func ModuleInt(doc []byte, prefix, key string) (int, bool) {
	return Int(doc, ModulePath(prefix, key))
}

// ModuleRaw reads a module-scoped nested flag
func ModuleRaw(doc []byte, prefix, key string) ([]byte, bool) {
	return Raw(doc, ModulePath(prefix, key))
}

// ScopedString reads a module-scoped string from a bare flags object, such as
// the flags attached to a placed template
func ScopedString(flagsObj []byte, key string) (string, bool) {
	return String(flagsObj, Scope+"."+key)
}
