package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputEmbedded(t *testing.T) {
	assert.Equal(t, 4, strings.Count(Input, "Monkey "))
	assert.True(t, strings.HasPrefix(Input, "Monkey 0:\n"))
}
