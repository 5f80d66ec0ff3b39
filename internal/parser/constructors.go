package parser

import (
	"regexp"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// public Foo(int x, String name) throws IOException {
// A capitalized name directly followed by a parameter list is taken to be a
// constructor. The name is not checked against the enclosing class.
// Groups: 1 access, 2 name, 3 parameter list.
var constructorRe = regexp.MustCompile(
	`(?:;|\n|\{|\})\s*(?:(public|private|protected)\s+)?([A-Z]\w*)\s*\(([^()]*)\)` +
		`\s*(?:throws\s+[\w.]+(?:\s*,\s*[\w.]+)*\s*)?\{?`,
)

// ExtractConstructors returns every constructor declaration in src in source
// order. A malformed parameter fails the whole extraction.
func ExtractConstructors(src string) ([]model.Constructor, error) {
	ctors := []model.Constructor{}
	for _, m := range constructorRe.FindAllStringSubmatch(src, -1) {
		access, err := decodeAccess(m[1])
		if err != nil {
			return nil, err
		}
		params, err := parseParameters(m[2], m[3])
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, model.Constructor{Access: access, Parameters: params})
	}
	return ctors, nil
}
