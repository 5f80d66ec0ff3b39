package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// Summary renders the human-readable description of class, one fact per line.
func Summary(class *model.Class) string {
	var b strings.Builder
	sig := class.Signature

	b.WriteString(sig.Access.String() + "\n")
	if sig.Kind == model.KindInterface {
		b.WriteString("<<interface>>\n")
	}
	b.WriteString(sig.Name + "\n")
	if sig.Superclass != "" {
		b.WriteString("extends " + sig.Superclass + "\n")
	}
	for _, iface := range sig.Interfaces {
		b.WriteString("implements " + iface + "\n")
	}

	for _, m := range class.Members {
		fmt.Fprintf(&b, "%s %s: %s\n", m.Access.Marker(), m.Name, m.Type)
	}
	for _, c := range class.Constructors {
		fmt.Fprintf(&b, "%s %s(%s)\n", c.Access.Marker(), sig.Name, model.FormatArguments(c.Parameters))
	}
	for _, m := range class.Methods {
		static := ""
		if m.IsStatic {
			static = " [static]"
		}
		fmt.Fprintf(&b, "%s %s(%s): %s%s\n",
			m.Access.Marker(), m.Name, model.FormatArguments(m.Parameters), m.ReturnTypeOrVoid(), static)
	}
	return b.String()
}
