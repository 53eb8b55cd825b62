package match

import (
	"sort"
)

// DefaultMinScore is the minimum similarity for a name to be suggested.
const DefaultMinScore = 0.6

// DefaultMaxSuggestions caps the number of suggestions per diagnostic.
const DefaultMaxSuggestions = 3

// Candidate is a scored candidate name.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered by descending score, then name.
type CandidateList []Candidate

func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Rank scores every candidate against name and sorts the result.
func Rank(name string, candidates []string) CandidateList {
	list := make(CandidateList, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, Candidate{Name: c, Score: Similarity(name, c)})
	}

	sort.Sort(list)

	return list
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if len(c) <= n {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, 0, len(c))
	for _, cand := range c {
		names = append(names, cand.Name)
	}

	return names
}

// Suggest returns up to DefaultMaxSuggestions candidates close to name.
func Suggest(name string, candidates []string) []string {
	return Rank(name, candidates).
		AboveThreshold(DefaultMinScore).
		Top(DefaultMaxSuggestions).
		Names()
}
