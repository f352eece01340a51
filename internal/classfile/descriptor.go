package classfile

import "strings"

// descriptorToFQN canonicalizes one JVM field/type descriptor into the FQN
// form of SPEC_FULL.md §3: "Lcom/axelor/db/Model;" -> "com.axelor.db.Model";
// "[Ljava/lang/String;" -> "java.lang.String[]"; "I" -> "int", etc.
func descriptorToFQN(desc string) string {
	arrayDepth := 0
	i := 0
	for i < len(desc) && desc[i] == '[' {
		arrayDepth++
		i++
	}
	rest := desc[i:]

	var base string
	switch {
	case len(rest) == 0:
		base = "void"
	case rest[0] == 'L':
		end := strings.IndexByte(rest, ';')
		if end < 0 {
			base = dotted(rest[1:])
		} else {
			base = dotted(rest[1:end])
		}
	default:
		base = primitiveName(rest[0])
	}

	return base + strings.Repeat("[]", arrayDepth)
}

func primitiveName(c byte) string {
	switch c {
	case 'B':
		return "byte"
	case 'C':
		return "char"
	case 'D':
		return "double"
	case 'F':
		return "float"
	case 'I':
		return "int"
	case 'J':
		return "long"
	case 'S':
		return "short"
	case 'Z':
		return "boolean"
	case 'V':
		return "void"
	default:
		return string(c)
	}
}

// decodeMethodDescriptor decodes a method descriptor, e.g.
// "(Ljava/util/List;I)V", into its canonical parameter-type list and
// return type: ["java.util.List", "int"], "void".
func decodeMethodDescriptor(desc string) (params []string, ret string) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, "void"
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		start := i
		for i < len(desc) && desc[i] == '[' {
			i++
		}
		if i >= len(desc) {
			break
		}
		switch desc[i] {
		case 'L':
			end := strings.IndexByte(desc[i:], ';')
			if end < 0 {
				i = len(desc)
			} else {
				i += end + 1
			}
		default:
			i++
		}
		params = append(params, descriptorToFQN(desc[start:i]))
	}
	if i < len(desc) && desc[i] == ')' {
		i++
	}
	ret = descriptorToFQN(desc[i:])
	return params, ret
}

// IsPervasive reports whether fqn is a pervasive base type excluded from
// member_of edges: the eight primitives, void, and any java.lang.* type.
func IsPervasive(fqn string) bool {
	switch fqn {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void":
		return true
	}
	return strings.HasPrefix(fqn, "java.lang.")
}
