package parser

import (
	"fmt"

	"github.com/olehluchkiv/umlbot/internal/model"
)

func decodeAccess(tok string) (model.AccessType, error) {
	a, ok := model.ParseAccess(tok)
	if !ok {
		return model.Default, fmt.Errorf("%w: %q", ErrUnrecognizedAccessToken, tok)
	}
	return a, nil
}
