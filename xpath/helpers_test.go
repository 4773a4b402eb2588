package xpath_test

import (
	"testing"

	"github.com/damedic/xpath-toolbox-go/xpath"
)

// mustCast casts a lexical form to kind and fails the test on error.
func mustCast(t *testing.T, lexical string, kind xpath.Kind) xpath.Value {
	t.Helper()
	v, err := xpath.Cast(xpath.String(lexical), kind)
	if err != nil {
		t.Fatalf("can not cast %q to %s: %v", lexical, kind, err)
	}
	return v
}

type typed struct {
	Kind    xpath.Kind
	Lexical string
}

func typedOf(v xpath.Value) typed {
	if v == nil {
		return typed{}
	}
	return typed{Kind: v.Kind(), Lexical: v.String()}
}
