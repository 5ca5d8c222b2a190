package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Grade    string  `validate:"omitempty,grade"`
	Year     string  `validate:"omitempty,yearcode"`
	TieBreak string  `validate:"omitempty,tiebreak"`
	Name     string  `validate:"omitempty,notblank"`
	Role     string  `validate:"omitempty,role"`
	Optional *string `validate:"omitempty,grade"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestRegister_CustomTags(t *testing.T) {
	v := newValidator(t)
	str := func(s string) *string { return &s }

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"empty passes", sample{}, true},
		{"grade with comma", sample{Grade: "12,5"}, true},
		{"grade upper bound", sample{Grade: "20"}, true},
		{"grade out of range", sample{Grade: "20.01"}, false},
		{"grade malformed", sample{Grade: "abc"}, false},
		{"pointer grade", sample{Optional: str("9.75")}, true},
		{"pointer grade bad", sample{Optional: str("-1")}, false},
		{"year code", sample{Year: "2025/2026"}, true},
		{"year code gap", sample{Year: "2025/2027"}, false},
		{"tie break", sample{TieBreak: "female_oldest"}, true},
		{"tie break unknown", sample{TieBreak: "random"}, false},
		{"blank name", sample{Name: "   "}, false},
		{"role", sample{Role: "secretary"}, true},
		{"role unknown", sample{Role: "leader"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
