package analyzer

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/nao1215/seocrawl/internal/model"
)

// Analyzer option errors.
var (
	// ErrInvalidLengthBounds is returned when the keyword length bounds do
	// not form a valid range.
	ErrInvalidLengthBounds = errors.New("invalid keyword length bounds")

	// ErrInvalidNGramSize is returned for a max n-gram size below 1.
	ErrInvalidNGramSize = errors.New("invalid max n-gram size")
)

// firstWordsWindow is the size of the leading body-text window the
// positional in-first-words flag is checked against.
const firstWordsWindow = 100

// Options configures an Analyzer.
type Options struct {
	// Language selects the stop word list.
	Language string

	// MinLength and MaxLength bound keyword length in runes. Terms outside
	// the bounds are discarded at tokenization.
	MinLength int
	MaxLength int

	// MaxNGramSize is the largest n-gram built. 1 disables n-grams.
	MaxNGramSize int

	// MinFrequency is the smallest per-page occurrence count a term needs
	// to be recorded.
	MinFrequency int

	// StuffingThreshold is the density ratio above which a term is flagged
	// as stuffed.
	StuffingThreshold float64
}

// Analyzer computes per-page keyword statistics: token frequencies, n-grams,
// densities, positional flags, and stuffing flags. TF-IDF scores are filled
// in later by the corpus finalize pass, once every page has been observed.
type Analyzer struct {
	opts      Options
	stopWords map[string]bool
	folder    cases.Caser
}

// New creates an Analyzer. It fails on an unknown stop words language or
// inconsistent length bounds, both of which are configuration mistakes the
// session should refuse to start with.
func New(opts Options) (*Analyzer, error) {
	stopWords, err := stopWordsFor(opts.Language)
	if err != nil {
		return nil, err
	}
	if opts.MinLength < 1 || opts.MaxLength < opts.MinLength {
		return nil, ErrInvalidLengthBounds
	}
	if opts.MaxNGramSize < 1 {
		return nil, ErrInvalidNGramSize
	}
	if opts.MinFrequency < 1 {
		opts.MinFrequency = 1
	}

	return &Analyzer{
		opts:      opts,
		stopWords: stopWords,
		folder:    cases.Fold(),
	}, nil
}

// AnalyzePage tokenizes the page's body text and returns its keyword
// statistics. The result is exclusively owned by the caller until handed to
// the finalize pass; nothing in the analyzer retains it.
//
// Unigram statistics and the token count exclude stop words. Phrases keep
// them: "buy now" is a meaningful SEO phrase even though "now" alone is
// noise, so n-grams are built over the full token stream and only dropped
// when every member is a stop word.
func (a *Analyzer) AnalyzePage(page *model.PageRecord) *model.PageKeywords {
	words := a.tokenize(page.BodyText)

	var contentTokens int
	for _, w := range words {
		if !a.stopWords[w] {
			contentTokens++
		}
	}

	result := &model.PageKeywords{
		PageURL:     page.URL,
		TotalTokens: contentTokens,
	}
	if contentTokens == 0 {
		return result
	}

	title := a.folder.String(page.Title)
	h1 := a.folder.String(page.H1)
	leading := a.leadingWords(page.BodyText)

	for size := 1; size <= a.opts.MaxNGramSize; size++ {
		counts, order := a.countNGrams(words, size)
		for _, term := range order {
			freq := counts[term]
			if freq < a.opts.MinFrequency {
				continue
			}

			// An n-gram occurrence covers n tokens of the page.
			density := float64(freq*size) / float64(contentTokens)

			result.Keywords = append(result.Keywords, model.KeywordRecord{
				Term:            term,
				IsNGram:         size > 1,
				NGramSize:       size,
				Frequency:       freq,
				Density:         density,
				InTitle:         strings.Contains(title, term),
				InH1:            strings.Contains(h1, term),
				InFirst100Words: strings.Contains(leading, term),
				Stuffed:         density > a.opts.StuffingThreshold,
			})
		}
	}

	return result
}

// tokenize splits text into case-folded tokens: runs of letters, optionally
// joined by internal hyphens or apostrophes. Tokens outside the length
// bounds are dropped; stop words survive here and are filtered per use.
func (a *Analyzer) tokenize(text string) []string {
	folded := a.folder.String(text)

	var tokens []string
	var current []rune
	flush := func() {
		if len(current) == 0 {
			return
		}
		token := strings.Trim(string(current), "-'")
		current = current[:0]

		length := len([]rune(token))
		if length < a.opts.MinLength || length > a.opts.MaxLength {
			return
		}
		tokens = append(tokens, token)
	}

	for _, r := range folded {
		if unicode.IsLetter(r) || r == '-' || r == '\'' {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// countNGrams counts contiguous n-grams of the given size over the token
// stream. It returns counts plus first-seen order so iteration stays
// deterministic. Skipped n-grams: those made entirely of stop words, and
// those whose joined form exceeds the max keyword length.
func (a *Analyzer) countNGrams(tokens []string, size int) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string

	for i := 0; i+size <= len(tokens); i++ {
		gram := tokens[i : i+size]
		if a.allStopWords(gram) {
			continue
		}
		term := strings.Join(gram, " ")
		if size > 1 && len([]rune(term)) > a.opts.MaxLength {
			continue
		}
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}

	return counts, order
}

// allStopWords reports whether every token in the slice is a stop word.
func (a *Analyzer) allStopWords(tokens []string) bool {
	for _, t := range tokens {
		if !a.stopWords[t] {
			return false
		}
	}
	return true
}

// leadingWords returns the case-folded first words of the body text, the
// window the in-first-words positional flag is checked against.
func (a *Analyzer) leadingWords(text string) string {
	words := strings.Fields(text)
	if len(words) > firstWordsWindow {
		words = words[:firstWordsWindow]
	}
	return a.folder.String(strings.Join(words, " "))
}
