package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/seocrawl/internal/model"
)

func newTestAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	if opts.Language == "" {
		opts.Language = "english"
	}
	if opts.MinLength == 0 {
		opts.MinLength = 3
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = 50
	}
	if opts.MaxNGramSize == 0 {
		opts.MaxNGramSize = 3
	}
	if opts.StuffingThreshold == 0 {
		opts.StuffingThreshold = 0.05
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return a
}

func findKeyword(keywords []model.KeywordRecord, term string) (model.KeywordRecord, bool) {
	for _, kw := range keywords {
		if kw.Term == term {
			return kw, true
		}
	}
	return model.KeywordRecord{}, false
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown stop words language", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{Language: "klingon", MinLength: 3, MaxLength: 50, MaxNGramSize: 3})
		if !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("New() error = %v, want %v", err, ErrUnsupportedLanguage)
		}
	})

	t.Run("rejects inverted length bounds", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{Language: "english", MinLength: 10, MaxLength: 3, MaxNGramSize: 3})
		if !errors.Is(err, ErrInvalidLengthBounds) {
			t.Errorf("New() error = %v, want %v", err, ErrInvalidLengthBounds)
		}
	})

	t.Run("accepts ISO language codes", func(t *testing.T) {
		t.Parallel()

		for _, lang := range []string{"en", "es", "English", "SPANISH"} {
			if _, err := New(Options{Language: lang, MinLength: 3, MaxLength: 50, MaxNGramSize: 3}); err != nil {
				t.Errorf("New(language=%q) returned error: %v", lang, err)
			}
		}
	})
}

func TestAnalyzerAnalyzePage(t *testing.T) {
	t.Parallel()

	t.Run("counts frequencies and densities over filtered tokens", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1, StuffingThreshold: 0.9})
		page := &model.PageRecord{
			URL:      "https://example.com/",
			BodyText: "crawler crawler indexing", // 3 tokens, no stop words
		}

		result := a.AnalyzePage(page)
		if result.TotalTokens != 3 {
			t.Fatalf("TotalTokens = %d, want 3", result.TotalTokens)
		}

		kw, ok := findKeyword(result.Keywords, "crawler")
		if !ok {
			t.Fatal("keyword crawler not found")
		}
		if kw.Frequency != 2 {
			t.Errorf("Frequency = %d, want 2", kw.Frequency)
		}
		if want := 2.0 / 3.0; kw.Density != want {
			t.Errorf("Density = %v, want %v", kw.Density, want)
		}
	})

	t.Run("stop-word phrase density can exceed one", func(t *testing.T) {
		t.Parallel()

		// "now" is a stop word, so the content token count is 2 while the
		// bigram covers 4 token slots. The ratio is deliberately allowed
		// past 1 so stuffing detection still sees phrases padded with stop
		// words.
		a := newTestAnalyzer(t, Options{MaxNGramSize: 2, StuffingThreshold: 0.9})
		page := &model.PageRecord{BodyText: "buy now buy now"}

		result := a.AnalyzePage(page)
		if result.TotalTokens != 2 {
			t.Fatalf("TotalTokens = %d, want 2 (stop words excluded)", result.TotalTokens)
		}

		kw, ok := findKeyword(result.Keywords, "buy now")
		if !ok {
			t.Fatal("bigram buy now not found")
		}
		if kw.Frequency != 2 {
			t.Errorf("Frequency = %d, want 2", kw.Frequency)
		}
		if want := 2.0; kw.Density != want {
			t.Errorf("Density = %v, want %v", kw.Density, want)
		}
		if !kw.Stuffed {
			t.Error("density above the threshold should raise the stuffing flag")
		}
	})

	t.Run("removes stop words and short tokens", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1})
		page := &model.PageRecord{BodyText: "the quick brown fox is on it"}

		result := a.AnalyzePage(page)
		for _, banned := range []string{"the", "is", "on", "it"} {
			if _, ok := findKeyword(result.Keywords, banned); ok {
				t.Errorf("stop word %q should not be recorded", banned)
			}
		}
		if _, ok := findKeyword(result.Keywords, "quick"); !ok {
			t.Error("keyword quick should be recorded")
		}
	})

	t.Run("case-folds tokens", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1})
		page := &model.PageRecord{BodyText: "Crawler CRAWLER crawler"}

		result := a.AnalyzePage(page)
		kw, ok := findKeyword(result.Keywords, "crawler")
		if !ok {
			t.Fatal("keyword crawler not found")
		}
		if kw.Frequency != 3 {
			t.Errorf("Frequency = %d, want 3 (case variants folded together)", kw.Frequency)
		}
	})

	t.Run("keeps internal hyphens and apostrophes", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1})
		page := &model.PageRecord{BodyText: "state-of-the-art ranking"}

		result := a.AnalyzePage(page)
		if _, ok := findKeyword(result.Keywords, "state-of-the-art"); !ok {
			t.Error("hyphenated token should survive tokenization")
		}
	})

	t.Run("builds n-grams up to the configured size", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 3, StuffingThreshold: 0.9})
		page := &model.PageRecord{BodyText: "search engine optimization search engine optimization"}

		result := a.AnalyzePage(page)

		bigram, ok := findKeyword(result.Keywords, "search engine")
		if !ok {
			t.Fatal("bigram search engine not found")
		}
		if !bigram.IsNGram || bigram.NGramSize != 2 {
			t.Errorf("bigram flags = (%v, %d), want (true, 2)", bigram.IsNGram, bigram.NGramSize)
		}
		if bigram.Frequency != 2 {
			t.Errorf("bigram Frequency = %d, want 2", bigram.Frequency)
		}

		trigram, ok := findKeyword(result.Keywords, "search engine optimization")
		if !ok {
			t.Fatal("trigram not found")
		}
		if trigram.Frequency != 2 {
			t.Errorf("trigram Frequency = %d, want 2", trigram.Frequency)
		}
	})

	t.Run("single-occurrence terms are recorded at the default threshold", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1, MinFrequency: 1})
		page := &model.PageRecord{BodyText: "singular appearance here today"}

		result := a.AnalyzePage(page)
		if _, ok := findKeyword(result.Keywords, "singular"); !ok {
			t.Error("term with frequency 1 should be recorded when MinFrequency is 1")
		}
	})

	t.Run("minimum frequency filters rare terms", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1, MinFrequency: 2})
		page := &model.PageRecord{BodyText: "common common rare"}

		result := a.AnalyzePage(page)
		if _, ok := findKeyword(result.Keywords, "rare"); ok {
			t.Error("term below MinFrequency should not be recorded")
		}
		if _, ok := findKeyword(result.Keywords, "common"); !ok {
			t.Error("term at MinFrequency should be recorded")
		}
	})

	t.Run("positional flags reflect title, h1, and leading words", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 1})
		filler := strings.Repeat("padding ", 120)
		page := &model.PageRecord{
			Title:    "Crawler Guide",
			H1:       "Indexing Basics",
			BodyText: "crawler indexing " + filler + " trailing trailing",
		}

		result := a.AnalyzePage(page)

		crawler, _ := findKeyword(result.Keywords, "crawler")
		if !crawler.InTitle {
			t.Error("crawler should be flagged in title")
		}
		if crawler.InH1 {
			t.Error("crawler should not be flagged in h1")
		}
		if !crawler.InFirst100Words {
			t.Error("crawler should be flagged in the first 100 words")
		}

		trailing, _ := findKeyword(result.Keywords, "trailing")
		if trailing.InFirst100Words {
			t.Error("trailing should be outside the first 100 words")
		}
	})

	t.Run("stuffing flag raised above the threshold but term still recorded", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{MaxNGramSize: 2, StuffingThreshold: 0.05})
		page := &model.PageRecord{
			BodyText: strings.Repeat("buy now ", 30) + "unrelated filler words appear once here",
		}

		result := a.AnalyzePage(page)

		kw, ok := findKeyword(result.Keywords, "buy now")
		if !ok {
			t.Fatal("stuffed term must still be recorded")
		}
		if !kw.Stuffed {
			t.Errorf("Stuffed = false for density %v above threshold", kw.Density)
		}
		if kw.Density <= 0.05 {
			t.Errorf("Density = %v, expected above the 0.05 threshold", kw.Density)
		}

		rare, ok := findKeyword(result.Keywords, "unrelated")
		if !ok {
			t.Fatal("keyword unrelated not found")
		}
		if rare.Stuffed {
			t.Error("low-density term should not be flagged as stuffed")
		}
	})

	t.Run("empty body yields an empty result", func(t *testing.T) {
		t.Parallel()

		a := newTestAnalyzer(t, Options{})
		result := a.AnalyzePage(&model.PageRecord{URL: "https://example.com/", BodyText: ""})
		if result.TotalTokens != 0 {
			t.Errorf("TotalTokens = %d, want 0", result.TotalTokens)
		}
		if len(result.Keywords) != 0 {
			t.Errorf("len(Keywords) = %d, want 0", len(result.Keywords))
		}
	})
}

func TestFinalizeSession(t *testing.T) {
	t.Parallel()

	t.Run("term on every page scores zero", func(t *testing.T) {
		t.Parallel()

		// Two pages, both containing "seo" once: IDF = log(2/2) = 0.
		pages := []*model.PageKeywords{
			{
				PageURL:     "https://example.com/a",
				TotalTokens: 10,
				Keywords:    []model.KeywordRecord{{Term: "seo", NGramSize: 1, Frequency: 1}},
			},
			{
				PageURL:     "https://example.com/b",
				TotalTokens: 20,
				Keywords:    []model.KeywordRecord{{Term: "seo", NGramSize: 1, Frequency: 1}},
			},
		}

		FinalizeSession(pages)

		for _, page := range pages {
			if got := page.Keywords[0].TFIDF; got != 0 {
				t.Errorf("TFIDF for ubiquitous term on %s = %v, want 0", page.PageURL, got)
			}
		}
	})

	t.Run("rarer terms score at least as high for fixed frequency", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageKeywords{
			{
				PageURL:     "https://example.com/a",
				TotalTokens: 10,
				Keywords: []model.KeywordRecord{
					{Term: "common", NGramSize: 1, Frequency: 1},
					{Term: "rare", NGramSize: 1, Frequency: 1},
				},
			},
			{
				PageURL:     "https://example.com/b",
				TotalTokens: 10,
				Keywords:    []model.KeywordRecord{{Term: "common", NGramSize: 1, Frequency: 1}},
			},
		}

		FinalizeSession(pages)

		common, _ := findKeyword(pages[0].Keywords, "common")
		rare, _ := findKeyword(pages[0].Keywords, "rare")
		if rare.TFIDF <= common.TFIDF {
			t.Errorf("rare TFIDF = %v should exceed common TFIDF = %v", rare.TFIDF, common.TFIDF)
		}
	})

	t.Run("is deterministic across repeated runs", func(t *testing.T) {
		t.Parallel()

		build := func() []*model.PageKeywords {
			return []*model.PageKeywords{
				{
					PageURL:     "https://example.com/a",
					TotalTokens: 7,
					Keywords: []model.KeywordRecord{
						{Term: "zebra", NGramSize: 1, Frequency: 2},
						{Term: "apple", NGramSize: 1, Frequency: 2},
						{Term: "shared", NGramSize: 1, Frequency: 1},
					},
				},
				{
					PageURL:     "https://example.com/b",
					TotalTokens: 5,
					Keywords:    []model.KeywordRecord{{Term: "shared", NGramSize: 1, Frequency: 3}},
				},
			}
		}

		first := build()
		second := build()
		FinalizeSession(first)
		FinalizeSession(second)

		for p := range first {
			if len(first[p].Keywords) != len(second[p].Keywords) {
				t.Fatalf("keyword counts diverge on page %d", p)
			}
			for i := range first[p].Keywords {
				a, b := first[p].Keywords[i], second[p].Keywords[i]
				if a.Term != b.Term || a.TFIDF != b.TFIDF {
					t.Errorf("page %d position %d: (%q, %v) != (%q, %v)", p, i, a.Term, a.TFIDF, b.Term, b.TFIDF)
				}
			}
		}
	})

	t.Run("equal scores break ties lexically", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageKeywords{
			{
				PageURL:     "https://example.com/a",
				TotalTokens: 10,
				Keywords: []model.KeywordRecord{
					{Term: "zebra", NGramSize: 1, Frequency: 1},
					{Term: "apple", NGramSize: 1, Frequency: 1},
				},
			},
		}

		FinalizeSession(pages)

		if pages[0].Keywords[0].Term != "apple" {
			t.Errorf("first keyword = %q, want %q (lexical tie-break)", pages[0].Keywords[0].Term, "apple")
		}
	})

	t.Run("empty corpus is a no-op", func(t *testing.T) {
		t.Parallel()
		FinalizeSession(nil)
	})
}
