package parser

import (
	"regexp"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// private int count;
// Fields without an access modifier are not recognized.
var memberRe = regexp.MustCompile(`(public|protected|private)\s+(\w+)\s+(\w+)\s*;`)

// ExtractMembers returns every field declaration in src in source order.
func ExtractMembers(src string) ([]model.Member, error) {
	members := []model.Member{}
	for _, m := range memberRe.FindAllStringSubmatch(src, -1) {
		access, err := decodeAccess(m[1])
		if err != nil {
			return nil, err
		}
		members = append(members, model.Member{
			Access: access,
			Type:   m[2],
			Name:   m[3],
		})
	}
	return members, nil
}
