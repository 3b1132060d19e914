// Package naming converts identifiers between the application model's
// camelCase convention and the storage schema's snake_case convention.
//
// Conversion is purely lexical: it never consults the schema, and a name that
// does not match the expected convention degrades to a best-effort transform
// rather than an error.
package naming

import (
	"strings"
	"unicode"
)

// Conversion maps names between the two casing domains. ToSQL and ToBean are
// inverses under the active policy; a name with no word boundaries is
// invariant under both.
type Conversion interface {
	// ToSQL converts an application-side name to its storage-side form.
	ToSQL(name string) string
	// ToBean converts a storage-side name back to its application-side form.
	ToBean(name string) string
}

// Default converts camelCase to snake_case and back.
type Default struct{}

// ToSQL converts a camelCase name to snake_case.
func (Default) ToSQL(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToBean converts a snake_case name to camelCase.
func (Default) ToBean(name string) string {
	if !strings.ContainsRune(name, '_') {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for i, r := range name {
		if r == '_' {
			// Leading or trailing delimiters carry no word boundary.
			if i == 0 || i == len(name)-1 {
				b.WriteRune(r)
				continue
			}
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Identity leaves names untouched in both directions.
type Identity struct{}

func (Identity) ToSQL(name string) string  { return name }
func (Identity) ToBean(name string) string { return name }

// Func adapts a caller-supplied conversion pair. A nil function falls back to
// identity for that direction.
type Func struct {
	SQL  func(string) string
	Bean func(string) string
}

func (f Func) ToSQL(name string) string {
	if f.SQL == nil {
		return name
	}
	return f.SQL(name)
}

func (f Func) ToBean(name string) string {
	if f.Bean == nil {
		return name
	}
	return f.Bean(name)
}

// ParseRows converts every key of every fetched row back to the
// application-side convention. Row order is preserved, no field is dropped or
// merged, and each distinct name is converted once per call.
func ParseRows(conv Conversion, rows []map[string]any) []map[string]any {
	if conv == nil {
		return rows
	}
	if _, ok := conv.(Identity); ok {
		return rows
	}
	names := make(map[string]string)
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		converted := make(map[string]any, len(row))
		for k, v := range row {
			bean, ok := names[k]
			if !ok {
				bean = conv.ToBean(k)
				names[k] = bean
			}
			converted[bean] = v
		}
		out[i] = converted
	}
	return out
}
