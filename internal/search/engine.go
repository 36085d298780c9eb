package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"snooze/internal/storage"
)

// Engine provides search over the cached feed without heavy indexing. It
// scans the last snapshot on every query; the feed is small enough that a
// linear pass beats maintaining an index for most setups.
type Engine struct {
	store *storage.Store
}

// NewEngine creates a new search engine
func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Search finds stories in the cached feed matching the query, best first.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	snap, err := e.store.FeedSnapshot()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return []*Result{}, nil
	}

	var results []*Result
	for i := range snap.Stories {
		if result := e.scoreStory(&snap.Stories[i], terms); result != nil {
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (e *Engine) scoreStory(s *storage.CachedStory, terms []string) *Result {
	var totalScore float64

	totalScore += scoreField(s.Title, terms, 4.0)
	totalScore += scoreField(s.Author, terms, 2.0)
	totalScore += scoreField(s.Username, terms, 1.5)
	totalScore += scoreField(s.URL, terms, 0.5)

	if totalScore > 0 {
		return &Result{Story: s, Score: totalScore}
	}
	return nil
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lowercase searchable terms, skipping single
// characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}
