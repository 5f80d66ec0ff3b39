package diagram

import (
	"strings"
	"testing"

	"github.com/olehluchkiv/umlbot/internal/model"
	"github.com/olehluchkiv/umlbot/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fooClass() *model.Class {
	return &model.Class{
		Signature: model.Signature{Access: model.Public, Kind: model.KindClass, Name: "Foo"},
		Members:   []model.Member{{Access: model.Public, Name: "x", Type: "int"}},
		Constructors: []model.Constructor{
			{Access: model.Public, Parameters: []model.Argument{{Name: "x", Type: "int"}}},
		},
		Methods: []model.Method{
			{Access: model.Public, ReturnType: "int", Name: "getX"},
		},
	}
}

func TestSummary_MinimalClass(t *testing.T) {
	want := "public\n" +
		"Foo\n" +
		"+ x: int\n" +
		"+ Foo(x: int)\n" +
		"+ getX(): int\n"
	assert.Equal(t, want, Summary(fooClass()))
}

func TestSummary_ParsedOneLiner(t *testing.T) {
	c, err := parser.ParseSource("public class Foo { public int x; public Foo(int x) {} public int getX() { return x; } }")
	require.NoError(t, err)
	assert.Equal(t, Summary(fooClass()), Summary(c))
}

func TestSummary_Interface(t *testing.T) {
	c, err := parser.ParseSource("interface Bar { void doIt(); }")
	require.NoError(t, err)

	lines := strings.Split(Summary(c), "\n")
	assert.Equal(t, []string{"", "<<interface>>", "Bar", "+ doIt(): void", ""}, lines)
}

func TestSummary_Inheritance(t *testing.T) {
	c := &model.Class{Signature: model.Signature{
		Kind:       model.KindClass,
		Name:       "Dog",
		Superclass: "Animal",
		Interfaces: []string{"Runnable", "Comparable"},
	}}
	assert.Equal(t, "\nDog\nextends Animal\nimplements Runnable\nimplements Comparable\n", Summary(c))
}

func TestSummary_Markers(t *testing.T) {
	c := &model.Class{
		Signature: model.Signature{Access: model.Private, Name: "Box"},
		Members: []model.Member{
			{Access: model.Default, Name: "a", Type: "int"},
			{Access: model.Private, Name: "b", Type: "int"},
			{Access: model.Protected, Name: "c", Type: "int"},
		},
		Constructors: []model.Constructor{{Access: model.Protected}},
		Methods: []model.Method{
			{Access: model.Default, IsStatic: true, Name: "make", Parameters: []model.Argument{{Name: "n", Type: "long"}}},
		},
	}
	want := "private\n" +
		"Box\n" +
		"  a: int\n" +
		"- b: int\n" +
		"# c: int\n" +
		"# Box()\n" +
		"  make(n: long): void [static]\n"
	assert.Equal(t, want, Summary(c))
}

func TestSummary_EmptyClass(t *testing.T) {
	c := &model.Class{Signature: model.Signature{Access: model.Public, Name: "Empty"}}
	assert.Equal(t, "public\nEmpty\n", Summary(c))
	assert.Equal(t, "@startuml\nclass Empty {\n}\n@enduml\n", GeneratePlantUML(c, Options{}))
}

func TestGeneratePlantUML_Default(t *testing.T) {
	c := fooClass()
	c.Signature.Superclass = "Base"
	c.Methods = append(c.Methods, model.Method{
		Access: model.Public, Name: "setX",
		Parameters: []model.Argument{{Name: "x", Type: "int"}, {Name: "force", Type: "boolean"}},
	})

	want := "@startuml\n" +
		"class Foo {\n" +
		"int x\n" +
		"int getX()\n" +
		"void setX(x: int, force: boolean)\n" +
		"}\n" +
		"@enduml\n"
	assert.Equal(t, want, GeneratePlantUML(c, Options{}))
}

func TestGeneratePlantUML_WithConstructorsAndRelations(t *testing.T) {
	c := fooClass()
	c.Signature.Superclass = "Base"
	c.Signature.Interfaces = []string{"Cloneable"}

	out := GeneratePlantUML(c, Options{IncludeConstructors: true, IncludeRelations: true})
	assert.Contains(t, out, "Foo(x: int)\n")
	assert.Contains(t, out, "Base <|-- Foo\n")
	assert.Contains(t, out, "Cloneable <|.. Foo\n")
	assert.True(t, strings.HasSuffix(out, "@enduml\n"))
}

func TestGeneratePlantUML_InterfaceKeyword(t *testing.T) {
	c := &model.Class{Signature: model.Signature{Kind: model.KindInterface, Name: "Bar"}}
	assert.Contains(t, GeneratePlantUML(c, Options{}), "class Bar {")
	assert.Contains(t, GeneratePlantUML(c, Options{IncludeRelations: true}), "interface Bar {")
}

func TestGenerateMermaid(t *testing.T) {
	c := fooClass()
	c.Signature.Interfaces = []string{"Comparable"}
	c.Methods = append(c.Methods, model.Method{Access: model.Default, IsStatic: true, Name: "of",
		Parameters: []model.Argument{{Name: "xs", Type: "List<Integer>"}}, ReturnType: "Foo"})

	out := GenerateMermaid(c, Options{IncludeRelations: true})
	assert.Contains(t, out, "classDiagram\n")
	assert.Contains(t, out, "    class Foo {\n")
	assert.Contains(t, out, "        +int x\n")
	assert.Contains(t, out, "        +getX() int\n")
	assert.Contains(t, out, "        ~of(List~Integer~ xs)$ Foo\n")
	assert.Contains(t, out, "    Comparable <|.. Foo\n")
	assert.Contains(t, out, "cssClass \"Foo\" implStyle")
	assert.NotContains(t, out, "Foo(int x)")
}

func TestGenerateMermaid_Interface(t *testing.T) {
	c := &model.Class{Signature: model.Signature{Kind: model.KindInterface, Name: "Bar"}}
	out := GenerateMermaid(c, Options{})
	assert.Contains(t, out, "<<interface>>")
	assert.Contains(t, out, "cssClass \"Bar\" interfaceStyle")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, PlantUML, f)
	assert.Equal(t, ".puml", f.Extension())

	f, err = ParseFormat("Mermaid")
	require.NoError(t, err)
	assert.Equal(t, Mermaid, f)
	assert.Equal(t, ".mmd", f.Extension())

	_, err = ParseFormat("graphviz")
	assert.Error(t, err)
}

func TestMarkup_Deterministic(t *testing.T) {
	for _, f := range []Format{PlantUML, Mermaid} {
		assert.Equal(t, Markup(fooClass(), f, Options{}), Markup(fooClass(), f, Options{}))
	}
}
