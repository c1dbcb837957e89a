package analyzer

import (
	"errors"
	"strings"
)

// ErrUnsupportedLanguage is returned when no stop word list exists for the
// requested language.
var ErrUnsupportedLanguage = errors.New("unsupported stop words language")

// stopWordsFor returns the stop word set for the given language name or
// ISO 639-1 code.
func stopWordsFor(language string) (map[string]bool, error) {
	switch strings.ToLower(language) {
	case "english", "en":
		return englishStopWords, nil
	case "spanish", "es":
		return spanishStopWords, nil
	default:
		return nil, ErrUnsupportedLanguage
	}
}

// englishStopWords holds common English function words. Keyword statistics
// over these words carry no SEO signal, so they are dropped at tokenization.
var englishStopWords = toSet(
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for",
	"not", "on", "with", "he", "as", "you", "do", "at", "this", "but", "his", "by",
	"from", "they", "we", "say", "her", "she", "or", "an", "will", "my", "one", "all",
	"would", "there", "their", "what", "so", "up", "out", "if", "about", "who", "get",
	"which", "go", "me", "when", "make", "can", "like", "time", "no", "just", "him",
	"know", "take", "people", "into", "year", "your", "good", "some", "could", "them",
	"see", "other", "than", "then", "now", "look", "only", "come", "its", "over",
	"think", "also", "back", "after", "use", "two", "how", "our", "work", "first",
	"well", "way", "even", "new", "want", "because", "any", "these", "give", "day",
	"most", "us", "is", "was", "are", "been", "has", "had", "were", "said", "did",
	"having", "may", "should", "am", "being",
)

// spanishStopWords holds common Spanish function words.
var spanishStopWords = toSet(
	"el", "la", "de", "que", "y", "a", "en", "un", "ser", "se", "no", "haber",
	"por", "con", "su", "para", "como", "estar", "tener", "le", "lo", "todo",
	"pero", "más", "hacer", "o", "poder", "decir", "este", "ir", "otro", "ese",
	"si", "me", "ya", "ver", "porque", "dar", "cuando", "él", "muy", "sin",
	"vez", "mucho", "saber", "qué", "sobre", "mi", "alguno", "mismo", "yo", "también",
	"hasta", "año", "dos", "querer", "entre", "así", "primero", "desde", "grande",
	"eso", "ni", "nos", "llegar", "pasar", "tiempo", "ella", "sí", "día", "uno",
	"bien", "poco", "deber", "entonces", "poner", "cosa", "tanto", "hombre", "parecer",
	"nuestro", "tan", "donde", "ahora", "parte", "después", "vida", "quedar", "siempre",
	"creer", "hablar", "llevar", "dejar", "nada", "cada", "seguir", "menos", "nuevo",
	"encontrar", "algo", "solo", "salir", "volver", "tomar", "conocer", "vivir",
	"sentir", "tratar", "mirar", "contar", "empezar", "esperar", "buscar", "existir",
	"entrar", "trabajar", "escribir", "perder", "producir", "ocurrir", "entender",
	"pedir", "recibir", "recordar", "terminar", "permitir", "aparecer", "conseguir",
	"comenzar", "servir", "sacar", "necesitar", "mantener", "resultar", "leer", "caer",
	"cambiar", "presentar", "crear", "abrir", "considerar", "oir", "acabar", "mil",
	"tal", "va", "fue", "sido", "son", "está", "estaba", "he", "ha", "han", "es",
	"era", "eres", "soy", "sea", "será", "del", "las", "los", "al", "una", "unos", "unas",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
