package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/bodyextract"
)

type fakeExtractor struct {
	bodies bodyextract.Bodies
	err    error
}

func (f *fakeExtractor) ExtractBodies(html []byte) (bodyextract.Bodies, error) {
	return f.bodies, f.err
}

func TestReconcileMergesNonDuplicateParagraphs(t *testing.T) {
	ext := &fakeExtractor{bodies: bodyextract.Bodies{
		Primary:   "A.\n\nB.",
		Inclusive: "A.\n\nB.\n\nC.",
	}}
	r := New(ext, 2000, zap.NewNop())
	got := r.Reconcile([]byte("<html></html>"))
	assert.Equal(t, "A.\n\nB.\n\nC.", got.Body)
}

func TestReconcileDropsExactDuplicateSignature(t *testing.T) {
	ext := &fakeExtractor{bodies: bodyextract.Bodies{
		Primary:   "This is paragraph one with enough words to matter here today.",
		Inclusive: "This is paragraph one with enough words to matter here today.\n\nSomething genuinely new appears down here instead.",
	}}
	r := New(ext, 2000, zap.NewNop())
	got := r.Reconcile([]byte("<html></html>"))
	assert.Contains(t, got.Body, "Something genuinely new appears down here instead.")
	assert.Equal(t, 1, countOccurrences(got.Body, "paragraph one"))
}

func TestMergeNonShrinkageLaw(t *testing.T) {
	primary := []string{"alpha one two three four five", "beta six seven eight nine ten"}
	secondary := []string{"alpha one two three four five", "gamma totally unrelated new content here"}
	merged := mergeParagraphs(primary, secondary)
	assert.GreaterOrEqual(t, len(merged), len(primary))
	assert.LessOrEqual(t, len(merged), len(primary)+len(secondary))
}

func TestSplitParagraphsFallsBackToSingleLine(t *testing.T) {
	text := "short\nThis line is long enough to count as a paragraph on its own."
	got := splitParagraphs(text)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "long enough")
}

func TestSpliceMetaDescriptionPrependsWhenDistinct(t *testing.T) {
	body := "Conteudo original do corpo da noticia aqui."
	meta := []string{"Um resumo completamente diferente com muitas palavras distintas do corpo principal."}
	got := spliceMetaDescriptions(body, meta)
	assert.Contains(t, got, meta[0])
	assert.True(t, len(got) > len(body))
}

func TestSpliceMetaDescriptionSkipsWhenSubstring(t *testing.T) {
	body := "Segundo testemunhas ouvidas pela reportagem no local na noite de ontem, o corpo completo da noticia com todos os detalhes sobre o caso foi divulgado pela policia civil apenas hoje cedo."
	meta := []string{"corpo completo da noticia com todos os detalhes sobre o caso"}
	got := spliceMetaDescriptions(body, meta)
	assert.Equal(t, body, got)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}
