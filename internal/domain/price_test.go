package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want Price
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"10.01", 1001},
		{"0.99", 99},
		{"1299.99", 129999},
		{" 5.25 ", 525},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10.", "10.123", "-5", "+5", ".50", "10,50"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePrice(in)
			assert.Error(t, err)
		})
	}
}

func TestParsePrice_Overflow(t *testing.T) {
	// An amount whose centavo value exceeds int64 must be rejected, not
	// silently wrapped into a different positive number.
	for _, in := range []string{
		"200000000000000000",
		"92233720368547758.08", // one centavo past the int64 ceiling
		"9223372036854775807",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePrice(in)
			assert.Error(t, err)
		})
	}

	// The largest representable amount still parses exactly.
	got, err := ParsePrice("92233720368547757.99")
	require.NoError(t, err)
	assert.Equal(t, "92233720368547757.99", got.String())
}

func TestPrice_Exactness(t *testing.T) {
	a, err := ParsePrice("10.00")
	require.NoError(t, err)
	b, err := ParsePrice("10.01")
	require.NoError(t, err)

	// One centavo apart must never compare equal.
	assert.NotEqual(t, a, b)
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "10.50", Price(1050).String())
	assert.Equal(t, "0.05", Price(5).String())
	assert.Equal(t, "3.00", Price(300).String())
}

func TestPrice_MarshalJSON(t *testing.T) {
	data, err := Price(1001).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"10.01"`, string(data))
}
