// Package parser extracts a class model from source text with a best-effort
// lexical scanner. It is not a compiler front end: each extractor matches one
// declaration shape against the whole text and ignores everything else.
package parser

import (
	"fmt"

	"github.com/olehluchkiv/umlbot/internal/model"
)

// Parse builds the class model of comment-free source text.
func Parse(src string) (*model.Class, error) {
	sig, err := ExtractSignature(src)
	if err != nil {
		return nil, err
	}
	members, err := ExtractMembers(src)
	if err != nil {
		return nil, fmt.Errorf("members of %s: %w", sig.Name, err)
	}
	ctors, err := ExtractConstructors(src)
	if err != nil {
		return nil, fmt.Errorf("constructors of %s: %w", sig.Name, err)
	}
	methods, err := ExtractMethods(src)
	if err != nil {
		return nil, fmt.Errorf("methods of %s: %w", sig.Name, err)
	}

	// Interface methods are implicitly public.
	if sig.Kind == model.KindInterface {
		for i := range methods {
			if methods[i].Access == model.Default {
				methods[i].Access = model.Public
			}
		}
	}

	return &model.Class{
		Signature:    sig,
		Members:      members,
		Constructors: ctors,
		Methods:      methods,
	}, nil
}

// ParseSource strips comments from raw source and parses the result.
func ParseSource(raw string) (*model.Class, error) {
	return Parse(StripComments(raw))
}
