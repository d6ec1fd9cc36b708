package semantic

import (
	"fmt"
	"strconv"
	"strings"
)

// SolType carries a resolved Solidity type with enough structure for
// compatibility checks. The zero value is the unknown type.
type SolType struct {
	Name      string
	IsArray   bool
	ArraySize int // 0 for dynamic arrays
	IsMapping bool
	KeyType   string
	ValueType string
}

var Unknown = SolType{Name: "unknown"}

// ParseType turns a rendered type name back into a SolType. Arrays and
// mappings keep their structure, everything else is a plain name.
func ParseType(name string) SolType {
	name = strings.TrimSpace(name)

	if strings.HasSuffix(name, "[]") {
		return SolType{Name: strings.TrimSuffix(name, "[]"), IsArray: true}
	}

	if open := strings.Index(name, "["); open > 0 && strings.HasSuffix(name, "]") {
		if size, err := strconv.Atoi(name[open+1 : len(name)-1]); err == nil {
			return SolType{Name: name[:open], IsArray: true, ArraySize: size}
		}
	}

	if inner, ok := strings.CutPrefix(name, "mapping("); ok && strings.HasSuffix(inner, ")") {
		inner = strings.TrimSuffix(inner, ")")
		if key, value, found := strings.Cut(inner, "=>"); found {
			return SolType{
				Name:      "mapping",
				IsMapping: true,
				KeyType:   strings.TrimSpace(key),
				ValueType: strings.TrimSpace(value),
			}
		}
		return SolType{Name: "mapping", IsMapping: true}
	}

	if name == "" {
		return Unknown
	}
	return SolType{Name: name}
}

func (t SolType) String() string {
	if t.IsMapping {
		return fmt.Sprintf("mapping(%s => %s)", t.KeyType, t.ValueType)
	}
	if t.IsArray {
		if t.ArraySize > 0 {
			return fmt.Sprintf("%s[%d]", t.Name, t.ArraySize)
		}
		return t.Name + "[]"
	}
	return t.Name
}

func (t SolType) IsNumeric() bool {
	if t.IsArray || t.IsMapping {
		return false
	}
	return strings.HasPrefix(t.Name, "uint") || strings.HasPrefix(t.Name, "int")
}

func (t SolType) IsUnknown() bool {
	return t.Name == "unknown" || t.Name == ""
}

// CompatibleWith reports whether a value of type t can initialize a slot of
// type other. Numeric types are mutually assignable at this level of
// analysis, and address accepts both address flavors.
func (t SolType) CompatibleWith(other SolType) bool {
	if t.Name == other.Name && t.IsArray == other.IsArray && t.IsMapping == other.IsMapping {
		return true
	}
	if t.IsNumeric() && other.IsNumeric() {
		return true
	}
	if isAddressFlavor(t.Name) && isAddressFlavor(other.Name) {
		return true
	}
	return false
}

func isAddressFlavor(name string) bool {
	return name == "address" || name == "address payable"
}

// InferLiteralType classifies a literal token. A 0x literal of exactly 40 hex
// digits is an address, other hex literals are bytes, bare integers default
// to uint256.
func InferLiteralType(literal string) SolType {
	lower := strings.ToLower(literal)
	if lower == "true" || lower == "false" {
		return SolType{Name: "bool"}
	}

	if strings.HasPrefix(literal, `"`) || strings.HasPrefix(literal, "'") {
		return SolType{Name: "string"}
	}

	if strings.HasPrefix(literal, "0x") {
		if len(literal) == 42 {
			return SolType{Name: "address"}
		}
		return SolType{Name: "bytes"}
	}

	if isDecimalDigits(literal) {
		return SolType{Name: "uint256"}
	}

	return Unknown
}

// isDecimalDigits accepts integer literals of any width, so full-range
// uint256 constants classify the same as small ones.
func isDecimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// InferBinaryType computes the result type of a binary operation.
// Comparisons and logical operators yield bool. Arithmetic on two numeric
// operands yields the lexically larger operand type.
func InferBinaryType(left, right SolType, operator string) SolType {
	switch operator {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return SolType{Name: "bool"}
	case "+", "-", "*", "/", "%", "**":
		if left.IsNumeric() && right.IsNumeric() {
			if left.Name >= right.Name {
				return left
			}
			return right
		}
	}
	return Unknown
}
