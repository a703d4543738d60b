package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"plain@x.com", "plain@x.com"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, escapeLike(tc.in))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
