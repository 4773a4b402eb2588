// Command generate renders the generated sources of the xpath package.
//
// It is invoked through go:generate from the xpath package directory.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/damedic/xpath-toolbox-go/internal/generate"
	. "github.com/dave/jennifer/jen"
)

func main() {
	out := flag.String("out", "kind_string.go", "output file of the Kind stringer")
	flag.Parse()

	files := map[string]*File{}
	newFile := func(fileName string, pkgName string) *File {
		if f, ok := files[fileName]; ok {
			return f
		}
		f := NewFile(pkgName)
		files[fileName] = f
		return f
	}

	log.Println("generating kinds...")
	generate.KindGenerator{Kinds: generate.Kinds}.Generate(newFile)

	for name, f := range files {
		path := *out
		if name != "kind_string" {
			path = filepath.Join(filepath.Dir(*out), name+".go")
		}
		log.Printf("writing %s...", path)
		if err := f.Save(path); err != nil {
			log.Fatal(err)
		}
	}
}
