package compiler

import (
	"strconv"
	"strings"
)

// The compact textual form mirrors the tree's exact structure and is
// deterministic, so it doubles as a golden-test surface. It is not a
// serialization format; the wire encoding is independent of it.

// String returns the reference's name.
func (r *Reference) String() string { return r.name }

// String returns "source.name" or "source[index]".
func (s *Selection) String() string {
	if s.name != "" {
		return s.source.String() + "." + s.name
	}
	return s.source.String() + "[" + strconv.Itoa(s.index) + "]"
}

// String returns "<a=x,y>".
func (s *Struct) String() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, e := range s.elements {
		if i > 0 {
			b.WriteByte(',')
		}
		if e.Name != "" {
			b.WriteString(e.Name)
			b.WriteByte('=')
		}
		b.WriteString(e.Value.String())
	}
	b.WriteByte('>')
	return b.String()
}

// String returns "fn(arg)" or "fn()".
func (c *Call) String() string {
	if c.arg == nil {
		return c.fn.String() + "()"
	}
	return c.fn.String() + "(" + c.arg.String() + ")"
}

// String returns "(x -> body)", or "( -> body)" for a no-argument lambda.
func (l *Lambda) String() string {
	return "(" + l.paramName + " -> " + l.body.String() + ")"
}

// String returns "(let a=x,b=y in result)".
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(let ")
	for i, l := range b.locals {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(l.Name)
		sb.WriteByte('=')
		sb.WriteString(l.Value.String())
	}
	sb.WriteString(" in ")
	sb.WriteString(b.result.String())
	sb.WriteByte(')')
	return sb.String()
}

// String returns "comp#xxxxxxxx", the first eight hex digits of the
// computation's content-addressed ID.
func (c *CompiledComputation) String() string {
	return "comp#" + c.id[:8]
}

// String returns the intrinsic's URI.
func (i *Intrinsic) String() string { return i.uri }

// String returns the placement in uppercase, matching the type formatting.
func (p *Placement) String() string {
	return strings.ToUpper(string(p.placement))
}

// String returns the data URI.
func (d *Data) String() string { return d.uri }

// String returns the literal's canonical text.
func (l *Literal) String() string { return l.value }
