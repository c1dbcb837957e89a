package analyzer

import (
	"math"
	"sort"

	"github.com/nao1215/seocrawl/internal/model"
)

// FinalizeSession computes TF-IDF scores across the whole session corpus and
// sorts each page's keywords by score.
//
// The IDF policy is batch, post-hoc: document frequencies are counted over
// the complete set of analyzed pages after all per-page work has quiesced,
// never incrementally during the crawl. Re-running FinalizeSession on the
// same pages therefore yields identical scores.
//
// IDF is log(totalPages / pagesContainingTerm), with a page counted once per
// term regardless of occurrence count. A term present on every page scores
// log(1) = 0: it carries no discriminating signal.
func FinalizeSession(pages []*model.PageKeywords) {
	totalPages := len(pages)
	if totalPages == 0 {
		return
	}

	docFreq := make(map[string]int)
	for _, page := range pages {
		for i := range page.Keywords {
			docFreq[page.Keywords[i].Term]++
		}
	}

	for _, page := range pages {
		for i := range page.Keywords {
			kw := &page.Keywords[i]

			tf := 0.0
			if page.TotalTokens > 0 {
				tf = float64(kw.Frequency) / float64(page.TotalTokens)
			}
			idf := math.Log(float64(totalPages) / float64(docFreq[kw.Term]))
			kw.TFIDF = tf * idf
		}

		sortKeywords(page.Keywords)
	}
}

// sortKeywords orders records by TF-IDF descending, breaking equal scores by
// lexical order of the term so rankings are stable across runs.
func sortKeywords(keywords []model.KeywordRecord) {
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].TFIDF != keywords[j].TFIDF {
			return keywords[i].TFIDF > keywords[j].TFIDF
		}
		return keywords[i].Term < keywords[j].Term
	})
}
