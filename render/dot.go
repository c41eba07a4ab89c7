// Package render emits textual views of analysis graphs: Graphviz DOT for
// visualization and YAML for machine-readable output (spec §6).
package render

import (
	"fmt"
	"strings"

	"github.com/viant/cpdg/graph"
)

// DOT renders g as a Graphviz "digraph" source string. Shapes and colors
// follow the node kind and edge kind: function_definition is an ellipse,
// branch headers are diamonds, everything else a rectangle; CDG edges are
// blue (green/orange for the synthetic root "entry"/"branch" attachment),
// DDG edges are dotted red, CFG edges are plain black (spec §6).
func DOT(name string, g *graph.Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", sanitizeID(name))
	b.WriteString("  rankdir=TB;\n")

	for _, n := range g.ByLine() {
		writeNode(&b, n)
	}
	for _, e := range g.Edges {
		writeEdge(&b, e)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, n *graph.Node) {
	label := fmt.Sprintf("%s (line %d)", escapeLabel(n.Text), n.Line)
	switch {
	case n.Kind == "function_definition":
		fmt.Fprintf(b, "  %d [shape=ellipse, style=filled, fillcolor=lightblue, label=\"%s\"];\n", n.ID, label)
	case n.IsBranch:
		fmt.Fprintf(b, "  %d [shape=diamond, label=\"%s\"];\n", n.ID, label)
	default:
		fmt.Fprintf(b, "  %d [shape=rectangle, label=\"%s\"];\n", n.ID, label)
	}
}

func writeEdge(b *strings.Builder, e *graph.Edge) {
	if e.Source == nil || e.Target == nil {
		return
	}
	attrs := edgeAttrs(e)
	if attrs != "" {
		fmt.Fprintf(b, "  %d -> %d [%s];\n", e.Source.ID, e.Target.ID, attrs)
		return
	}
	fmt.Fprintf(b, "  %d -> %d;\n", e.Source.ID, e.Target.ID)
}

func edgeAttrs(e *graph.Edge) string {
	switch e.Kind {
	case graph.DDG:
		label := strings.Join(e.Variables.Slice(), ", ")
		return fmt.Sprintf("label=\"%s\", style=dotted, color=red", escapeLabel(label))
	case graph.CDG:
		switch e.Label {
		case "entry":
			return "label=\"entry\", color=green, penwidth=2"
		case "branch":
			return "label=\"branch\", color=orange, penwidth=2"
		default:
			return "color=blue"
		}
	default:
		if e.Label != "" {
			return fmt.Sprintf("label=\"%s\"", escapeLabel(e.Label))
		}
		return ""
	}
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func sanitizeID(s string) string {
	if s == "" {
		return "G"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
