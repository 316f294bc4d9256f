package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFiscalCode(t *testing.T) {
	cases := []struct {
		code  string
		valid bool
	}{
		{"RSSMRA85T10A562S", true},
		{"VRDLGU90A01H501X", true},
		{"rssmra85t10a562s", false}, // validation is case-sensitive, normalize first
		{"RSSMRA85T10A562", false},  // 15 chars
		{"RSSMRA85T10A562SS", false},
		{"RSSMR185T10A562S", false}, // digit where a letter belongs
		{"RSSMRA8ST10A562S", false}, // letter where a digit belongs
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, ValidFiscalCode(tc.code), "code %q", tc.code)
	}
}

func TestRegisterNormalizesAndValidates(t *testing.T) {
	reg := &Registry{}

	p, err := reg.Register("Mario Rossi", "rssmra85t10a562s", "333 1234567")
	require.NoError(t, err)
	assert.Equal(t, "RSSMRA85T10A562S", p.FiscalCode)
	assert.True(t, p.Registered)
	assert.Equal(t, RegisteredDiscount, p.Discount)
	assert.True(t, p.Penalty.IsZero())

	_, err = reg.Register("Bad Code", "NOT-A-FISCAL-CODE", "")
	assert.ErrorIs(t, err, ErrInvalidFiscalCode)
	assert.Len(t, reg.Patrons, 1)
}

func TestRegistryFind(t *testing.T) {
	reg := &Registry{}
	_, err := reg.Register("Mario Rossi", "RSSMRA85T10A562S", "")
	require.NoError(t, err)

	p, err := reg.Find("RSSMRA85T10A562S")
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", p.Name)

	_, err = reg.Find("VRDLGU90A01H501X")
	assert.ErrorIs(t, err, ErrPatronNotFound)
}
