package celrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		vt      ValueType
		expr    string
		wantErr error
	}{
		{name: "number bound", vt: ValueNumber, expr: "value <= 50000.0"},
		{name: "string size", vt: ValueString, expr: "size(value) <= 10"},
		{name: "empty", vt: ValueString, expr: "  ", wantErr: ErrEmptyRule},
		{name: "non boolean", vt: ValueNumber, expr: "value + 1.0", wantErr: ErrNotBoolean},
		{name: "unknown type", vt: ValueType("date"), expr: "true", wantErr: ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.vt, tt.expr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile(ValueNumber, "value <=")
	assert.Error(t, err)
}

func TestCompile_TypeMismatch(t *testing.T) {
	_, err := Compile(ValueString, "value > 10.0")
	assert.Error(t, err)
}

func TestCompile_Cached(t *testing.T) {
	p1, err := Compile(ValueNumber, "value >= 0.0")
	require.NoError(t, err)
	p2, err := Compile(ValueNumber, "value >= 0.0")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(ValueNumber, "value <= 2000.0", 1500.0))
	assert.ErrorIs(t, Check(ValueNumber, "value <= 2000.0", 2500.0), ErrRuleViolation)
	assert.NoError(t, Check(ValueString, `value.matches("^[A-Z]{4}[0-9]{7}$")`, "SBIN0001234"))
	assert.ErrorIs(t, Check(ValueString, `value.startsWith("IN")`, "GB12"), ErrRuleViolation)
}
