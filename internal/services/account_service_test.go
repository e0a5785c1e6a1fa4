package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("1990-04-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "01-04-1990", "1990-13-01"} {
		_, err := parseDate(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
		assert.Equal(t, CodeInvalidInput, codeOf(err), bad)
	}
}
