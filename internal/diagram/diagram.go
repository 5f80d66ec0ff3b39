// Package diagram renders class models as text summaries and diagram markup.
package diagram

import (
	"fmt"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// Format selects the markup dialect.
type Format string

const (
	PlantUML Format = "plantuml"
	Mermaid  Format = "mermaid"
)

// ParseFormat validates a format name. Empty selects PlantUML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlantUML:
		return PlantUML, nil
	case Mermaid:
		return Mermaid, nil
	default:
		return "", fmt.Errorf("unknown markup format %q (valid: plantuml, mermaid)", s)
	}
}

// Extension returns the file extension used for markup of this format.
func (f Format) Extension() string {
	if f == Mermaid {
		return ".mmd"
	}
	return ".puml"
}

// Options controls markup generation. The zero value renders members and
// methods only; constructors and inheritance appear in the summary alone.
type Options struct {
	IncludeConstructors bool
	IncludeRelations    bool // extends / implements edges
}

// Markup renders class in the given format.
func Markup(class *model.Class, format Format, opts Options) string {
	if format == Mermaid {
		return GenerateMermaid(class, opts)
	}
	return GeneratePlantUML(class, opts)
}
