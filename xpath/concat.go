package xpath

// Concat implements the || operator. Each operand contributes its canonical lexical
// form; a nil operand stands for the empty sequence and contributes nothing.
func Concat(a, b Value) String {
	return String(lexical(a) + lexical(b))
}

func lexical(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
