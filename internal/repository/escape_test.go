package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "azul", escapeLike("azul"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `anti\_mofo`, escapeLike("anti_mofo"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
