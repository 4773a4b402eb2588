package testdata

import (
	"embed"
	"encoding/xml"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
)

//go:embed qt3/*.xml
var qt3Files embed.FS

// QT3TestSet is a test set in the format of the W3C QT3 conformance suite.
type QT3TestSet struct {
	Name        string        `xml:"name,attr"`
	Description string        `xml:"description"`
	TestCases   []QT3TestCase `xml:"test-case"`
}

type QT3TestCase struct {
	Name        string    `xml:"name,attr"`
	Description string    `xml:"description"`
	Test        string    `xml:"test"`
	Result      QT3Result `xml:"result"`
}

// QT3Result holds the single assertion of a test case.
type QT3Result struct {
	Assertions []QT3Assertion `xml:",any"`
}

// QT3Assertion is one of assert-eq, assert-string-value, assert-type, assert-true,
// assert-false, assert-empty, error, any-of or all-of. The latter two nest further
// assertions.
type QT3Assertion struct {
	XMLName  xml.Name
	Code     string         `xml:"code,attr"`
	Value    string         `xml:",chardata"`
	Children []QT3Assertion `xml:",any"`
}

// Kind returns the local name of the assertion element, e.g. "assert-eq".
func (a QT3Assertion) Kind() string {
	return a.XMLName.Local
}

// GetQT3Tests loads the embedded test sets sorted by name.
func GetQT3Tests() []QT3TestSet {
	log.Println("loading QT3 test sets...")
	files, err := fs.Glob(qt3Files, "qt3/*.xml")
	if err != nil {
		log.Fatal(err)
	}

	var sets []QT3TestSet
	for _, name := range files {
		sets = append(sets, readQT3TestSet(name))
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Name < sets[j].Name
	})
	return sets
}

func readQT3TestSet(name string) QT3TestSet {
	f, err := qt3Files.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var set QT3TestSet
	err = xml.NewDecoder(f).Decode(&set)
	if err != nil {
		log.Fatalf("failed to decode %s: %v", name, err)
	}
	if set.Name == "" {
		set.Name = strings.TrimSuffix(path.Base(name), ".xml")
	}
	for i, tc := range set.TestCases {
		if len(tc.Result.Assertions) != 1 {
			log.Fatalf("%s: test case %s must have exactly one assertion, has %d", name, tc.Name, len(tc.Result.Assertions))
		}
		set.TestCases[i].Test = strings.TrimSpace(tc.Test)
	}
	return set
}
