package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeScalars(t *testing.T) {
	ty := ParseType("uint256")
	assert.Equal(t, "uint256", ty.Name)
	assert.False(t, ty.IsArray)
	assert.False(t, ty.IsMapping)
	assert.Equal(t, "uint256", ty.String())
}

func TestParseTypeArrays(t *testing.T) {
	dynamic := ParseType("uint256[]")
	assert.True(t, dynamic.IsArray)
	assert.Equal(t, "uint256", dynamic.Name)
	assert.Equal(t, "uint256[]", dynamic.String())

	fixed := ParseType("bytes32[4]")
	assert.True(t, fixed.IsArray)
	assert.Equal(t, 4, fixed.ArraySize)
	assert.Equal(t, "bytes32[4]", fixed.String())
}

func TestParseTypeMapping(t *testing.T) {
	ty := ParseType("mapping(address => uint256)")
	assert.True(t, ty.IsMapping)
	assert.Equal(t, "address", ty.KeyType)
	assert.Equal(t, "uint256", ty.ValueType)
	assert.Equal(t, "mapping(address => uint256)", ty.String())
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, ParseType("uint256").IsNumeric())
	assert.True(t, ParseType("int8").IsNumeric())
	assert.False(t, ParseType("bool").IsNumeric())
	assert.False(t, ParseType("address").IsNumeric())
	assert.False(t, ParseType("uint256[]").IsNumeric(), "arrays are not numeric")
}

func TestCompatibleWith(t *testing.T) {
	uint256 := ParseType("uint256")
	uint8 := ParseType("uint8")
	addr := ParseType("address")
	payable := ParseType("address payable")
	boolean := ParseType("bool")

	assert.True(t, uint256.CompatibleWith(uint256))
	assert.True(t, uint256.CompatibleWith(uint8), "numeric types are mutually assignable")
	assert.True(t, addr.CompatibleWith(payable))
	assert.True(t, payable.CompatibleWith(addr))
	assert.False(t, boolean.CompatibleWith(uint256))
	assert.False(t, addr.CompatibleWith(uint256))
}

func TestInferLiteralType(t *testing.T) {
	assert.Equal(t, "bool", InferLiteralType("true").Name)
	assert.Equal(t, "bool", InferLiteralType("false").Name)
	assert.Equal(t, "string", InferLiteralType(`"hello"`).Name)
	assert.Equal(t, "address", InferLiteralType("0x742d35Cc6634C0532925a3b844Bc454e4438f44e").Name)
	assert.Equal(t, "bytes", InferLiteralType("0x1234").Name)
	assert.Equal(t, "uint256", InferLiteralType("42").Name)
	assert.Equal(t, "uint256",
		InferLiteralType("115792089237316195423570985008687907853269984665640564039457584007913129639935").Name,
		"literals wider than 64 bits are still integers")
	assert.True(t, InferLiteralType("whatever").IsUnknown())
	assert.True(t, InferLiteralType("1.5").IsUnknown())
}

func TestInferBinaryType(t *testing.T) {
	uint256 := ParseType("uint256")
	uint8 := ParseType("uint8")
	boolean := ParseType("bool")

	for _, op := range []string{"==", "!=", "<", "<=", ">", ">=", "&&", "||"} {
		assert.Equal(t, "bool", InferBinaryType(uint256, uint256, op).Name, "op %s", op)
	}

	// Arithmetic keeps the lexically larger numeric operand type.
	assert.Equal(t, "uint8", InferBinaryType(uint256, uint8, "+").Name)
	assert.Equal(t, "uint8", InferBinaryType(uint8, uint256, "*").Name)
	assert.True(t, InferBinaryType(uint256, boolean, "+").IsUnknown())
}
