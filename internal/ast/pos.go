package ast

import "fmt"

// Pos is a source position used for diagnostics only.
type Pos struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// IsValid reports whether the position carries a line number.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// String renders the position as file:line:col.
func (p Pos) String() string {
	if !p.IsValid() {
		return ""
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Kind identifies the kind of a node.
type Kind int

const (
	KindModule Kind = iota
	KindGroup
	KindEnvironment
	KindInference
	KindGlobal
	KindArgument
	KindPremise
	KindWhile
	KindRange
	KindProposition
	KindTarget
)

var kindNames = [...]string{
	KindModule:      "module",
	KindGroup:       "group",
	KindEnvironment: "environment",
	KindInference:   "inference",
	KindGlobal:      "global",
	KindArgument:    "argument",
	KindPremise:     "premise",
	KindWhile:       "while",
	KindRange:       "range",
	KindProposition: "proposition",
	KindTarget:      "target",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	Position() Pos
}
