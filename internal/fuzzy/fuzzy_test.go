package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("João da Silva", "João da Silva"))
}

func TestRatioEmptyOperand(t *testing.T) {
	assert.Equal(t, 0.0, Ratio("", "anything"))
	assert.Equal(t, 0.0, Ratio("anything", ""))
	assert.Equal(t, 0.0, Ratio("", ""))
}

func TestRatioBounds(t *testing.T) {
	r := Ratio("Morte de Joao Silva", "João da Silva")
	assert.GreaterOrEqual(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestRatioCaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("COPACABANA", "copacabana"))
}

func TestJaccardWords(t *testing.T) {
	assert.InDelta(t, 1.0, JaccardWords("a b c", "a b c"), 1e-9)
	assert.Equal(t, 0.0, JaccardWords("", "a b c"))

	j := JaccardWords("homem morto a tiros", "homem morto a facadas")
	assert.Greater(t, j, 0.0)
	assert.Less(t, j, 1.0)
}
