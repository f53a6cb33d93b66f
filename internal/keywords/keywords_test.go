package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesEmptyOnBenignText(t *testing.T) {
	hits := Matches("O trânsito estava pesado hoje.")
	assert.Empty(t, hits)
}

func TestMatchesFindsKnownKeyword(t *testing.T) {
	hits := Matches("Homem foi morto a tiros no bairro ontem.")
	assert.Contains(t, hits, "morto")
	assert.Contains(t, hits, "tiros")
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	hits := Matches("HOMICÍDIO registrado na madrugada.")
	assert.Contains(t, hits, "homicídio")
}

func TestMatchesEmptyText(t *testing.T) {
	assert.Empty(t, Matches(""))
}

func TestMatchesDeduplicates(t *testing.T) {
	hits := Matches("morto morto morto, encontrado morto na rua.")
	assert.Len(t, hits, 2) // "morto" and "encontrado morto"
}
