package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// mermaidInit themes standalone .mmd files the same way the preview page does.
const mermaidInit = "%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ffffff', 'primaryBorderColor': '#cccccc', 'primaryTextColor': '#000000', 'lineColor': '#555555'}}}%%\n"

// GenerateMermaid produces a Mermaid classDiagram for a single class.
func GenerateMermaid(class *model.Class, opts Options) string {
	var b strings.Builder
	sig := class.Signature
	id := NodeID(sig.Name)

	b.WriteString(mermaidInit)
	b.WriteString("classDiagram\n")
	b.WriteString("    direction LR\n")
	b.WriteString("    classDef interfaceStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px,font-weight:bold\n")
	b.WriteString("    classDef implStyle fill:#4a9c6d,stroke:#357a50,color:#fff,stroke-width:2px\n")

	fmt.Fprintf(&b, "    class %s {\n", id)
	if sig.Kind == model.KindInterface {
		b.WriteString("        <<interface>>\n")
	}
	for _, m := range class.Members {
		fmt.Fprintf(&b, "        %s%s %s\n", mermaidVisibility(m.Access), SanitizeType(m.Type), m.Name)
	}
	if opts.IncludeConstructors {
		for _, c := range class.Constructors {
			fmt.Fprintf(&b, "        %s%s(%s)\n", mermaidVisibility(c.Access), sig.Name, mermaidParams(c.Parameters))
		}
	}
	for _, m := range class.Methods {
		line := fmt.Sprintf("        %s%s(%s)", mermaidVisibility(m.Access), m.Name, mermaidParams(m.Parameters))
		if m.IsStatic {
			line += "$"
		}
		if m.ReturnType != "" {
			line += " " + SanitizeType(m.ReturnType)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("    }\n")

	if opts.IncludeRelations {
		if sig.Superclass != "" {
			writeRelation(&b, NodeID(sig.Superclass), id, "<|--")
		}
		for _, iface := range sig.Interfaces {
			writeRelation(&b, NodeID(iface), id, "<|..")
		}
	}

	style := "implStyle"
	if sig.Kind == model.KindInterface {
		style = "interfaceStyle"
	}
	fmt.Fprintf(&b, "    cssClass \"%s\" %s\n", id, style)

	return b.String()
}

// SanitizeType rewrites characters in type names that break Mermaid syntax.
// Generic brackets become Mermaid's tilde notation.
func SanitizeType(t string) string {
	r := strings.NewReplacer("<", "~", ">", "~", "{", "", "}", "")
	return r.Replace(t)
}

// NodeID builds a sanitized Mermaid node identifier from a type name.
func NodeID(name string) string {
	r := strings.NewReplacer("/", "_", ".", "_", "-", "_", "$", "_")
	return r.Replace(name)
}

func mermaidVisibility(a model.AccessType) string {
	if a == model.Default {
		return "~"
	}
	return a.Marker()
}

func mermaidParams(args []model.Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = SanitizeType(a.Type) + " " + a.Name
	}
	return strings.Join(parts, ", ")
}

// writeRelation writes a single Mermaid relation line.
func writeRelation(b *strings.Builder, parentID, childID, arrow string) {
	fmt.Fprintf(b, "    %s %s %s\n", parentID, arrow, childID)
}
