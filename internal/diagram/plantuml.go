package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// GeneratePlantUML produces a PlantUML class diagram for a single class.
func GeneratePlantUML(class *model.Class, opts Options) string {
	var b strings.Builder
	sig := class.Signature

	b.WriteString("@startuml\n")

	keyword := "class"
	if opts.IncludeRelations && sig.Kind == model.KindInterface {
		keyword = "interface"
	}
	fmt.Fprintf(&b, "%s %s {\n", keyword, sig.Name)
	for _, m := range class.Members {
		fmt.Fprintf(&b, "%s %s\n", m.Type, m.Name)
	}
	if opts.IncludeConstructors {
		for _, c := range class.Constructors {
			fmt.Fprintf(&b, "%s(%s)\n", sig.Name, model.FormatArguments(c.Parameters))
		}
	}
	for _, m := range class.Methods {
		fmt.Fprintf(&b, "%s %s(%s)\n", m.ReturnTypeOrVoid(), m.Name, model.FormatArguments(m.Parameters))
	}
	b.WriteString("}\n")

	if opts.IncludeRelations {
		if sig.Superclass != "" {
			fmt.Fprintf(&b, "%s <|-- %s\n", sig.Superclass, sig.Name)
		}
		for _, iface := range sig.Interfaces {
			fmt.Fprintf(&b, "%s <|.. %s\n", iface, sig.Name)
		}
	}

	b.WriteString("@enduml\n")
	return b.String()
}
