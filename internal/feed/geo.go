package feed

// GeoQueries returns the fixed geo-expansion term list appended to the base
// query when fetch/run-all is invoked with --geo: a concrete Rio de
// Janeiro neighborhood/administrative-region list, matching the resolver's
// single-implicit-city assumption.
func GeoQueries() []string {
	out := make([]string, len(rioNeighborhoods))
	copy(out, rioNeighborhoods)
	return out
}

var rioNeighborhoods = []string{
	"Copacabana", "Ipanema", "Tijuca", "Bangu", "Campo Grande",
	"Realengo", "Santa Cruz", "Complexo do Alemão", "Rocinha", "Maré",
	"Cidade de Deus", "Jacarepaguá", "Barra da Tijuca", "Madureira",
	"Penha", "Méier", "Niterói", "São Gonçalo", "Duque de Caxias",
	"Nova Iguaçu", "Baixada Fluminense",
}
