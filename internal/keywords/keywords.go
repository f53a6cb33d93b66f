// Package keywords implements the fast substring screen (C1) that gates
// whether a Source's content is worth sending to the language model.
package keywords

import "strings"

// MurderKeywords is the fixed Portuguese lexicon of violence verbs, weapon
// nouns, outcome nouns, and institutional-context terms used to screen
// article bodies before the expensive LLM call. Compiled-in and read-only
// after process start; no runtime mutation.
var MurderKeywords = []string{
	// Ações / Verbos
	"matou", "mataram", "assassinou", "assassinaram", "executou", "executaram",
	"atirou", "atiraram", "baleou", "balearam", "esfaqueou", "esfaquearam",
	"disparou", "dispararam", "apontou arma", "alvejaram", "alvejado",
	"linchou", "lincharam", "estrangulou", "estrangularam", "degolou", "degolaram",
	"carbonizou", "carbonizaram", "desovou", "desovaram",

	// Resultados / Substantivos
	"homicídio", "assassinato", "latrocínio", "feminicídio", "chacina", "massacre",
	"execução", "crime", "morte", "morto", "morta", "mortos", "mortas",
	"óbito", "cadáver", "corpo", "ossada", "vítima fatal", "vítimas fatais",
	"atentado", "baleado", "baleada", "esfaqueado", "esfaqueada",
	"troca de tiros", "tiroteio", "confronto", "emboscada",

	// Métodos / Armas
	"tiro", "tiros", "bala", "balas", "arma de fogo", "revólver", "pistola", "fuzil",
	"faca", "facada", "facadas", "arma branca", "golpes", "projétil", "projéteis",
	"queima-roupa", "disparo", "disparos",

	// Contexto / Agentes
	"polícia militar", "polícia civil", "pm", "bope", "choque", "traficante", "tráfico",
	"milícia", "miliciano", "facção", "comando vermelho", "tcp", "ada",
	"operação policial", "intervenção policial", "bala perdida",
	"encontrado morto", "encontrada morta", "corpo encontrado",
	"local do crime", "cena do crime", "iml", "instituto médico legal",
	"dh", "divisão de homicídios", "delegacia de homicídios",
}

// NonLethalViolence lists terms that indicate violence without necessarily
// a death — not consulted by Matches, but exposed for callers that want a
// secondary screen (e.g. to down-weight confidence when only these terms
// are present alongside a marginal murder-keyword hit).
var NonLethalViolence = []string{
	"agrediu", "agressão", "ferido", "ferida", "lesão corporal", "roubo", "furto", "assalto",
}

// Matches lowercases text once and scans for every keyword in
// MurderKeywords, returning the deduplicated set of hits. An empty result
// means the caller should skip the LLM call and mark the source processed.
func Matches(text string) map[string]struct{} {
	hits := make(map[string]struct{})
	if text == "" {
		return hits
	}
	lower := strings.ToLower(text)
	for _, kw := range MurderKeywords {
		if strings.Contains(lower, kw) {
			hits[kw] = struct{}{}
		}
	}
	return hits
}

// MatchSlice is a convenience wrapper returning the hit set as a sorted-free
// slice, used where callers want to log or serialize the matches.
func MatchSlice(text string) []string {
	hits := Matches(text)
	out := make([]string, 0, len(hits))
	for kw := range hits {
		out = append(out, kw)
	}
	return out
}
