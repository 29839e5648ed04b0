package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `\%\%`, likeEscaper.Replace(`%%`))
	assert.Equal(t, `a\_b`, likeEscaper.Replace(`a_b`))
	assert.Equal(t, `\\\%`, likeEscaper.Replace(`\%`))
	assert.Equal(t, `plain`, likeEscaper.Replace(`plain`))
}
