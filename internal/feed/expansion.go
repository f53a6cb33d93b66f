package feed

// ExpansionTerms is the fixed topic-expansion list appended to the base
// query when fetch/run-all is invoked with --expand.
var ExpansionTerms = []string{
	"homicídio", "assassinato", "morto", "tiroteio", "baleado",
	"corpo encontrado", "polícia", "milícia", "tráfico",
}
