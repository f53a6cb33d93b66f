package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDateFlagEmpty(t *testing.T) {
	got, err := parseDateFlag("")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseDateFlagValid(t *testing.T) {
	got, err := parseDateFlag("2024-05-09")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, 5, int(got.Month()))
		assert.Equal(t, 9, got.Day())
	}
}

func TestParseDateFlagInvalid(t *testing.T) {
	_, err := parseDateFlag("05/09/2024")
	assert.Error(t, err)
}
