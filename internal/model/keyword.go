package model

// KeywordRecord is one keyword or n-gram observed on one page, together with
// its frequency metrics and positional flags.
//
// TFIDF is only valid after the full session corpus has been observed: the
// analyzer fills in frequency, density, and flags per page, and the corpus
// finalize pass multiplies in the inverse document frequency. Records are
// never partially mutated after finalization.
type KeywordRecord struct {
	// Term is the keyword text. N-gram terms are space-joined tokens.
	Term string `json:"term"`

	// IsNGram reports whether the term spans more than one token.
	IsNGram bool `json:"is_ngram"`

	// NGramSize is the number of tokens in the term. 1 for unigrams.
	NGramSize int `json:"ngram_size"`

	// Frequency is the number of occurrences on the page.
	Frequency int `json:"frequency"`

	// Density is the share of the page's content tokens covered by this
	// term: Frequency times NGramSize over the content token count. The
	// denominator excludes stop words while an n-gram may contain them,
	// so phrases built around stop words can score above 1.
	Density float64 `json:"density"`

	// TFIDF is term frequency multiplied by inverse document frequency.
	// Zero until the session finalize pass has run.
	TFIDF float64 `json:"tf_idf_score"`

	// InTitle reports whether the term appears in the page title.
	InTitle bool `json:"in_title"`

	// InH1 reports whether the term appears in the first H1.
	InH1 bool `json:"in_h1"`

	// InFirst100Words reports whether the term appears within the first
	// 100 words of the body text.
	InFirst100Words bool `json:"in_first_100_words"`

	// Stuffed flags densities above the configured stuffing threshold.
	// Advisory metadata only; stuffed terms are still recorded and scored.
	Stuffed bool `json:"stuffed"`
}

// PageKeywords holds the analyzer output for a single page.
type PageKeywords struct {
	// PageURL is the canonical URL of the analyzed page.
	PageURL string `json:"page_url"`

	// TotalTokens is the filtered token count the densities were computed
	// against.
	TotalTokens int `json:"total_tokens"`

	// Keywords are the per-page records, sorted by TFIDF descending with
	// lexical order of the term breaking ties (once finalized).
	Keywords []KeywordRecord `json:"keywords"`
}
