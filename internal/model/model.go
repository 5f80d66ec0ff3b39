// Package model holds the structural class model extracted from one source file.
package model

import (
	"fmt"
	"strings"
)

// AccessType is the declared access level of a class or one of its members.
type AccessType int

const (
	Default AccessType = iota // no access modifier token present
	Public
	Private
	Protected
)

// ParseAccess decodes an access modifier token. An empty token means Default.
func ParseAccess(tok string) (AccessType, bool) {
	switch strings.TrimSpace(tok) {
	case "":
		return Default, true
	case "public":
		return Public, true
	case "private":
		return Private, true
	case "protected":
		return Protected, true
	default:
		return Default, false
	}
}

// String returns the source keyword, or "" for Default.
func (a AccessType) String() string {
	switch a {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return ""
	}
}

// Marker returns the one-character visibility marker used in summaries.
func (a AccessType) Marker() string {
	switch a {
	case Public:
		return "+"
	case Private:
		return "-"
	case Protected:
		return "#"
	default:
		return " "
	}
}

// ClassKind distinguishes classes from interfaces.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
)

// ParseKind decodes the declaration keyword.
func ParseKind(tok string) (ClassKind, error) {
	switch tok {
	case "class":
		return KindClass, nil
	case "interface":
		return KindInterface, nil
	default:
		return KindClass, fmt.Errorf("unknown declaration kind %q", tok)
	}
}

func (k ClassKind) String() string {
	if k == KindInterface {
		return "interface"
	}
	return "class"
}

// Argument is one (name, type) pair of a parameter list.
type Argument struct {
	Name string
	Type string
}

// Member is a field declaration.
type Member struct {
	Access AccessType
	Name   string
	Type   string
}

// Constructor is a constructor declaration.
type Constructor struct {
	Access     AccessType
	Parameters []Argument
}

// Method is a method declaration. An empty ReturnType means void.
type Method struct {
	Access     AccessType
	IsStatic   bool
	ReturnType string
	Name       string
	Parameters []Argument
}

// ReturnTypeOrVoid returns the declared return type, or "void".
func (m Method) ReturnTypeOrVoid() string {
	if m.ReturnType == "" {
		return "void"
	}
	return m.ReturnType
}

// Signature is the declared identity of a class or interface.
// An empty Superclass means none was declared.
type Signature struct {
	Access     AccessType
	Kind       ClassKind
	Name       string
	Superclass string
	Interfaces []string
}

// Class is the complete model of one compilation unit. Slices keep
// declaration order.
type Class struct {
	Signature    Signature
	Members      []Member
	Constructors []Constructor
	Methods      []Method
}

// Name is a shortcut for Signature.Name.
func (c *Class) Name() string {
	return c.Signature.Name
}

// FormatArguments renders a parameter list as "name: type, ...".
func FormatArguments(args []Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Name + ": " + a.Type
	}
	return strings.Join(parts, ", ")
}
