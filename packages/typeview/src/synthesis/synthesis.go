// Package synthesis assembles a walked template's instruction stream into one
// self-contained TypeScript source unit whose compilation surfaces template
// binding errors as type diagnostics.
package synthesis

import (
	"fmt"
	"strings"

	"ngtv-go/packages/typeview/src/filters"
	"ngtv-go/packages/typeview/src/view_walker"
)

const indentUnit = "    "

// Unit identifies one (component, template) pair to synthesize
type Unit struct {
	// ComponentName names the component; it also names the synthetic function
	ComponentName string
	// ScopeTypeName is the TypeScript type of the component's data shape
	ScopeTypeName string
	// ScopeInterface is the opaque declaration text of that type, embedded
	// verbatim at the top of the output
	ScopeInterface string
}

// Synthesize converts the instruction stream into TypeScript source text.
// Output is byte-identical across runs for the same input: variable numbering
// is sequential and filter declarations are emitted in sorted order.
func Synthesize(unit *Unit, result *view_walker.WalkResult, reg *filters.Registry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by ngtv-go for component %s. DO NOT EDIT.\n", unit.ComponentName)
	b.WriteString("\n")

	if text := strings.TrimSpace(unit.ScopeInterface); text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	for _, name := range result.FiltersUsed {
		if declaration := reg.Declaration(name); declaration != "" {
			b.WriteString(declaration)
			b.WriteString("\n")
		}
	}
	if len(result.FiltersUsed) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "function %s__viewCheck($scope: %s) {\n", unit.ComponentName, unit.ScopeTypeName)

	depth := 1
	counter := 0
	for _, instruction := range result.Instructions {
		switch instr := instruction.(type) {
		case *view_walker.VariableInstruction:
			counter++
			writeLine(&b, depth, fmt.Sprintf("const _v%d: %s = %s;", counter, instr.Type, instr.Text))
		case *view_walker.ScopeOpenInstruction:
			if len(instr.Header) > 0 {
				writeLine(&b, depth, instr.Header[0])
				depth++
				for _, line := range instr.Header[1:] {
					writeLine(&b, depth, line)
				}
			}
		case *view_walker.ScopeCloseInstruction:
			depth--
			writeLine(&b, depth, instr.ClosingText)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func writeLine(b *strings.Builder, depth int, line string) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString(line)
	b.WriteString("\n")
}
