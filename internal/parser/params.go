package parser

import (
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// parseParameters splits "int x, String name" into arguments. Each
// comma-separated segment must hold exactly a type and a name.
func parseParameters(decl, list string) ([]model.Argument, error) {
	args := []model.Argument{}
	if strings.TrimSpace(list) == "" {
		return args, nil
	}
	for _, seg := range strings.Split(list, ",") {
		fields := strings.Fields(seg)
		if len(fields) != 2 {
			return nil, &ParamError{Decl: decl, Segment: strings.TrimSpace(seg)}
		}
		args = append(args, model.Argument{Type: fields[0], Name: fields[1]})
	}
	return args, nil
}
