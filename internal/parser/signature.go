package parser

import (
	"regexp"
	"strings"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// public abstract class Foo extends Bar implements Baz, Qux {
// Groups: 1 access, 2 kind, 3 name, 4 superclass, 5 interface list.
var signatureRe = regexp.MustCompile(
	`\b(public|private|protected)?\s*\b(?:(?:abstract|final|static|strictfp)\s+)*` +
		`(class|interface)\s+(\w+)\s*` +
		`(?:extends\s+(\w+)\s*)?` +
		`(?:implements\s+(\w+(?:\s*,\s*\w+)*)\s*)?\{`,
)

// ExtractSignature returns the first class or interface header in src.
func ExtractSignature(src string) (model.Signature, error) {
	m := signatureRe.FindStringSubmatch(src)
	if m == nil {
		return model.Signature{}, ErrNoSignatureFound
	}

	access, err := decodeAccess(m[1])
	if err != nil {
		return model.Signature{}, err
	}
	kind, err := model.ParseKind(m[2])
	if err != nil {
		return model.Signature{}, err
	}

	sig := model.Signature{
		Access:     access,
		Kind:       kind,
		Name:       m[3],
		Superclass: m[4],
		Interfaces: []string{},
	}
	if m[5] != "" {
		for _, iface := range strings.Split(m[5], ",") {
			sig.Interfaces = append(sig.Interfaces, strings.TrimSpace(iface))
		}
	}
	return sig, nil
}
