package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedURLFormat(t *testing.T) {
	f := New("news.google.com")
	got := f.feedURL("Rio de Janeiro")
	assert.Contains(t, got, "news.google.com/rss/search?q=")
	assert.Contains(t, got, "hl=pt-BR&gl=BR&ceid=BR:pt-419")
}

func TestExpandQueriesBaseOnly(t *testing.T) {
	got := ExpandQueries("Rio de Janeiro", false, false)
	assert.Equal(t, []string{"Rio de Janeiro"}, got)
}

func TestExpandQueriesWithTopics(t *testing.T) {
	got := ExpandQueries("Rio de Janeiro", true, false)
	assert.Equal(t, 1+len(ExpansionTerms), len(got))
	assert.Contains(t, got[1], "homicídio")
}

func TestExpandQueriesWithGeo(t *testing.T) {
	got := ExpandQueries("Rio de Janeiro", false, true)
	assert.Equal(t, 1+len(rioNeighborhoods), len(got))
}
