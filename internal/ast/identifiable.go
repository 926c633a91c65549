package ast

import "strings"

// Identifiable is a dotted identifier chain such as a.b.c.
type Identifiable struct {
	Parts []string
	Pos   Pos
}

// ParseIdentifiable splits a dotted string into an Identifiable. Segments
// are kept verbatim, so "a..b" has an empty middle part; "" yields an empty
// chain.
func ParseIdentifiable(s string) Identifiable {
	if s == "" {
		return Identifiable{}
	}
	return Identifiable{Parts: strings.Split(s, ".")}
}

// Canonicalize joins the chain with dots. An empty chain yields "".
func Canonicalize(id Identifiable) string {
	return strings.Join(id.Parts, ".")
}

// Root returns the first identifier of the chain, or "" when it is empty.
func Root(id Identifiable) string {
	if len(id.Parts) == 0 {
		return ""
	}
	return id.Parts[0]
}
