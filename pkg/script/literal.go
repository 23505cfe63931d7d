package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/df07/go-bpwf/pkg/core"
)

// Float formats a scalar the way every emitted coordinate is written
func Float(f float64) string {
	return fmt.Sprintf("%15.10e", f)
}

// Vec formats a vector as a Python 3-tuple
func Vec(v core.Vec3) string {
	return fmt.Sprintf("(%s, %s, %s)", Float(v.X), Float(v.Y), Float(v.Z))
}

// Color4 formats an RGBA tuple with four decimals
func Color4(c core.RGB, alpha float64) string {
	return fmt.Sprintf("(%6.4f, %6.4f, %6.4f, %6.4f)", c.R, c.G, c.B, alpha)
}

// Color3 formats an RGB tuple with four decimals
func Color3(c core.RGB) string {
	return fmt.Sprintf("(%6.4f, %6.4f, %6.4f)", c.R, c.G, c.B)
}

// Short formats a scalar compactly for values that are not coordinates
func Short(f float64) string {
	return fmt.Sprintf("%6.4f", f)
}

// Quote returns a double-quoted Python string literal. Go's escape
// sequences are a subset of Python's.
func Quote(s string) string {
	return strconv.Quote(s)
}

// Bool returns the Python spelling of b
func Bool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// VecList formats vectors as a Python list of tuples
func VecList(vs []core.Vec3) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("(%s, %s, %s)", Float(v.X), Float(v.Y), Float(v.Z))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Faces formats index tuples as a Python list
func Faces(faces [][]int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		idx := make([]string, len(f))
		for j, n := range f {
			idx[j] = strconv.Itoa(n)
		}
		parts[i] = "(" + strings.Join(idx, ", ") + ")"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Variables bound to scene objects and materials carry one of these
// prefixes. Fixed script variables (scene, camera, fg, ...) never do.
const (
	objectPrefix   = "o_"
	dataPrefix     = "d_"
	materialPrefix = "m_"
	nodePrefix     = "n_"
)

// ObjectVar returns the variable bound to the named object
func ObjectVar(name string) string {
	return objectPrefix + Ident(name)
}

// DataVar returns the variable bound to a datablock owned by the named
// object, e.g. its mesh. kind must not contain an underscore.
func DataVar(name, kind string) string {
	return dataPrefix + Ident(name) + "_" + kind
}

// MaterialVar returns the variable bound to the named material
func MaterialVar(name string) string {
	return materialPrefix + Ident(name)
}

// NodeVar returns the variable bound to one shader node of the named
// material. node must not contain an underscore.
func NodeVar(material, node string) string {
	return nodePrefix + Ident(material) + "_" + node
}

// Ident maps an object or material name onto a Python identifier. The
// mapping is not injective ("a-b" and "a_b" give the same result), so
// callers that need distinct variables must check for collisions.
func Ident(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if i == 0 && unicode.IsDigit(r) {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" || pythonKeywords[id] {
		id = "_" + id
	}
	return id
}
