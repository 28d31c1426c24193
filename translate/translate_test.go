package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ip 12 word 99", From("ip %d word %d", 12, 99))
	assert.Equal("plain", From("plain"))
	assert.NotEmpty(Number(1219070632396864))
}
