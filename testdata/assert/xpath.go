package assert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/damedic/xpath-toolbox-go/testdata"
	"github.com/damedic/xpath-toolbox-go/xpath"
	"github.com/google/go-cmp/cmp"
)

// QT3Result checks the outcome of evaluating a test expression against a QT3 assertion.
// assert-eq operands are themselves evaluated as expressions with ctx.
func QT3Result(t *testing.T, ctx context.Context, a testdata.QT3Assertion, result xpath.Sequence, err error) {
	t.Helper()
	if ok, want := check(ctx, a, result, err); !ok {
		t.Errorf("%s mismatch (-want +got):\n%s", a.Kind(), cmp.Diff(want, describe(result, err)))
	}
}

func describe(result xpath.Sequence, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return result.String()
}

// check reports whether the assertion holds and what was expected otherwise.
func check(ctx context.Context, a testdata.QT3Assertion, result xpath.Sequence, err error) (bool, string) {
	switch a.Kind() {
	case "any-of":
		var wants []string
		for _, c := range a.Children {
			ok, want := check(ctx, c, result, err)
			if ok {
				return true, ""
			}
			wants = append(wants, want)
		}
		return false, "any of: " + strings.Join(wants, " | ")
	case "all-of":
		for _, c := range a.Children {
			if ok, want := check(ctx, c, result, err); !ok {
				return false, want
			}
		}
		return true, ""
	case "error":
		if err == nil {
			return false, "error: " + a.Code
		}
		code, _ := xpath.CodeOf(err)
		return a.Code == "*" || string(code) == a.Code, "error: " + a.Code
	}

	if err != nil {
		return false, fmt.Sprintf("%s %s", a.Kind(), a.Value)
	}
	switch a.Kind() {
	case "assert-empty":
		return len(result) == 0, "{ }"
	case "assert-true":
		return isBoolean(result, true), "{ true }"
	case "assert-false":
		return isBoolean(result, false), "{ false }"
	case "assert-string-value":
		items := make([]string, len(result))
		for i, v := range result {
			items[i] = v.String()
		}
		return strings.Join(items, " ") == a.Value, fmt.Sprintf("string value %q", a.Value)
	case "assert-type":
		return len(result) == 1 && result[0].Kind().String() == strings.TrimSpace(a.Value), "{ " + a.Value + " instance }"
	case "assert-eq":
		return assertEq(ctx, a.Value, result), "{ " + a.Value + " }"
	}
	panic(fmt.Sprintf("unsupported assertion %s", a.Kind()))
}

func isBoolean(result xpath.Sequence, want bool) bool {
	if len(result) != 1 {
		return false
	}
	b, ok := result[0].(xpath.Boolean)
	return ok && bool(b) == want
}

func assertEq(ctx context.Context, expected string, result xpath.Sequence) bool {
	expr, err := xpath.Parse(strings.TrimSpace(expected))
	if err != nil {
		panic(fmt.Sprintf("invalid assert-eq expression %q: %v", expected, err))
	}
	want, err := xpath.Evaluate(ctx, expr)
	if err != nil || len(want) != 1 || len(result) != 1 {
		return false
	}
	eq, err := xpath.Compare(ctx, xpath.OpEq, result[0], want[0])
	if errors.Is(err, xpath.ErrType) {
		return false
	}
	return err == nil && eq
}
