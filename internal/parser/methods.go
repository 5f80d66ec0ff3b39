package parser

import (
	"regexp"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// public static int parse(String s)
// Groups: 1 access, 2 static, 3 return type, 4 name, 5 parameter list.
var methodRe = regexp.MustCompile(
	`(?:;|\n|\{|\})\s*(?:(public|private|protected)\s+)?(?:(static)\s+)?` +
		`(?:(?:final|abstract|synchronized|native|default)\s+)*` +
		`(\w+)\s+(\w+)\(([^()]*)\)`,
)

// notReturnTypes are tokens the method pattern captures in the return type
// slot when it misfires on constructors or statements.
var notReturnTypes = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"return":    true,
	"new":       true,
	"throw":     true,
	"else":      true,
	"case":      true,
	"package":   true,
	"import":    true,
}

// ExtractMethods returns every method declaration in src in source order.
// Candidates with a malformed parameter or an impossible return type are
// dropped rather than reported.
func ExtractMethods(src string) ([]model.Method, error) {
	methods := []model.Method{}
	for _, m := range methodRe.FindAllStringSubmatch(src, -1) {
		if notReturnTypes[m[3]] {
			continue
		}
		access, err := decodeAccess(m[1])
		if err != nil {
			return nil, err
		}
		params, err := parseParameters(m[4], m[5])
		if err != nil {
			continue
		}
		ret := m[3]
		if ret == "void" {
			ret = ""
		}
		methods = append(methods, model.Method{
			Access:     access,
			IsStatic:   m[2] != "",
			ReturnType: ret,
			Name:       m[4],
			Parameters: params,
		})
	}
	return methods, nil
}
