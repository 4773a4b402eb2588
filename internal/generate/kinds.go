package generate

import (
	"github.com/iancoleman/strcase"

	. "github.com/dave/jennifer/jen"
)

// Kinds lists the local names of the supported xs: atomic types in the order of the
// Kind constants.
var Kinds = []string{
	"boolean",
	"string",
	"untypedAtomic",
	"integer",
	"decimal",
	"float",
	"double",
	"duration",
	"yearMonthDuration",
	"dayTimeDuration",
	"dateTime",
	"date",
	"time",
	"gYear",
	"gYearMonth",
	"gMonth",
	"gMonthDay",
	"gDay",
}

// KindGenerator renders the String method of xpath.Kind and the name lookup table.
type KindGenerator struct {
	Kinds []string
}

func (g KindGenerator) Generate(f func(fileName string, pkgName string) *File) {
	file := f("kind_string", "xpath")
	file.HeaderComment("Code generated by internal/cmd/generate. DO NOT EDIT.")

	generateKindString(file, g.Kinds)
	generateKindLookup(file, g.Kinds)
}

// KindIdentifier returns the Go constant name of an xs: local name, e.g. KindGYearMonth.
func KindIdentifier(local string) string {
	return "Kind" + strcase.ToCamel(local)
}

func generateKindString(f *File, kinds []string) {
	f.Comment("String returns the xs: QName of the kind.")
	f.Func().Params(Id("k").Id("Kind")).Id("String").Params().String().Block(
		Switch(Id("k")).BlockFunc(func(g *Group) {
			for _, k := range kinds {
				g.Case(Id(KindIdentifier(k))).Block(Return(Lit("xs:" + k)))
			}
			g.Default().Block(Return(Lit("invalid")))
		}),
	)
}

func generateKindLookup(f *File, kinds []string) {
	f.Var().Id("kindsByName").Op("=").Map(String()).Id("Kind").Values(DictFunc(func(d Dict) {
		for _, k := range kinds {
			d[Lit("xs:"+k)] = Id(KindIdentifier(k))
		}
	}))

	f.Comment("LookupKind returns the kind named by an xs: QName such as xs:dayTimeDuration.")
	f.Func().Id("LookupKind").Params(Id("name").String()).Params(Id("Kind"), Bool()).Block(
		List(Id("k"), Id("ok")).Op(":=").Id("kindsByName").Index(Id("name")),
		Return(Id("k"), Id("ok")),
	)
}
