package annotate

import (
	"strings"

	"go.jacobcolvin.com/xjavadoc/javasrc"
)

// ValueTag asks javadoc to render a constant's compile-time value.
const ValueTag = "{@value}"

// Synthesize builds the documentation block for a method:
//
//	<name>
//	<markup>
//
//	@param <p1> <p1>
//	@param <p2> <p2>
//
//	@return <result>
//
// Parameters are listed in declaration order, each using its own name as the
// description. The @return section, including the blank line before it, is
// omitted when result is void. Every line ends with "\n".
func Synthesize(name, markup string, params []javasrc.Parameter, result javasrc.Type) string {
	var sb strings.Builder

	sb.WriteString(name)
	sb.WriteByte('\n')
	sb.WriteString(markup)
	sb.WriteString("\n\n")

	for _, p := range params {
		sb.WriteString("@param ")
		sb.WriteString(p.Name)
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
		sb.WriteByte('\n')
	}

	if !result.IsVoid() {
		sb.WriteString("\n@return ")
		sb.WriteString(result.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

// constantDoc builds the documentation block for a constant field from its
// declarator parts, or reports false when there are fewer than two.
func constantDoc(f *javasrc.Field) (string, bool) {
	parts := f.Parts()
	if len(parts) < 2 {
		return "", false
	}

	return parts[1] + " " + ValueTag, true
}
