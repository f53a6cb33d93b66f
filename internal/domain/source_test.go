package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name  string
		from  SourceStatus
		to    SourceStatus
		force bool
		want  bool
	}{
		{"pending to downloaded", SourceStatusPending, SourceStatusDownloaded, false, true},
		{"downloaded to processed", SourceStatusDownloaded, SourceStatusProcessed, false, true},
		{"processed to pending without force", SourceStatusProcessed, SourceStatusPending, false, false},
		{"processed to pending with force", SourceStatusProcessed, SourceStatusPending, true, true},
		{"failed is terminal without force", SourceStatusFailed, SourceStatusDownloaded, false, false},
		{"pending to failed", SourceStatusPending, SourceStatusFailed, false, true},
		{"same status is always fine", SourceStatusProcessed, SourceStatusProcessed, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to, tc.force))
		})
	}
}

func TestSourceApplyTransition(t *testing.T) {
	s := &Source{URL: "https://agg/x", Status: SourceStatusPending}
	require.NoError(t, s.ApplyTransition(SourceStatusDownloaded, false))
	assert.Equal(t, SourceStatusDownloaded, s.Status)

	err := s.ApplyTransition(SourceStatusPending, false)
	assert.Error(t, err)
	assert.Equal(t, SourceStatusDownloaded, s.Status, "status unchanged on rejected transition")

	require.NoError(t, s.ApplyTransition(SourceStatusPending, true))
	assert.Equal(t, SourceStatusPending, s.Status)
}

func TestSourceValidate(t *testing.T) {
	s := &Source{Status: SourceStatusPending}
	assert.Error(t, s.Validate(), "empty URL is invalid")

	s.URL = "https://agg/x"
	assert.NoError(t, s.Validate())

	s.Status = "bogus"
	assert.Error(t, s.Validate())
}
