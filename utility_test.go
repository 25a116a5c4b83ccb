// FILE: lixenwraith/tradelog/utility_test.go
package tradelog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Error(t, err)
	assert.Equal(t, "tradelog: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("tradelog: already prefixed")
	assert.Equal(t, "tradelog: already prefixed", err.Error())

	// Wrapping is preserved
	err = fmtErrorf("wrapped: %w", ErrQueueFull)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestCombineErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, first, combineErrors(first, nil))
	assert.Equal(t, second, combineErrors(nil, second))

	combined := combineErrors(first, second)
	assert.Equal(t, "first; second", combined.Error())
	assert.ErrorIs(t, combined, second)
}
