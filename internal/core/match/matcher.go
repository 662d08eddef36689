// Package match ranks reference names by their similarity to query names.
package match

import "sort"

const (
	DefaultTopN      = 5
	DefaultThreshold = 80
)

// Match is a reference name with its similarity score.
type Match struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// MatchNames scores every query against references with Ratio.
//
// Per query the references are ranked by score (ties keep reference order),
// cut to topN and filtered by threshold. The per-query lists are then
// concatenated in query order, ranked again and cut to topN overall, so a
// weaker query can lose all of its matches to a stronger one. Queries that
// are empty after Process match nothing, whatever the threshold. topN <= 0
// returns an empty slice.
func MatchNames(queries, references []string, topN, threshold int) []Match {
	return matchNames(Ratio, queries, references, topN, threshold)
}

func matchNames(score Scorer, queries, references []string, topN, threshold int) []Match {
	all := []Match{}
	if topN <= 0 {
		return all
	}

	for _, q := range queries {
		if Process(q) == "" {
			continue
		}
		ranked := make([]Match, 0, len(references))
		for _, ref := range references {
			ranked = append(ranked, Match{Name: ref, Score: score(q, ref)})
		}
		sortByScore(ranked)

		if len(ranked) > topN {
			ranked = ranked[:topN]
		}
		for _, m := range ranked {
			if m.Score >= threshold {
				all = append(all, m)
			}
		}
	}

	sortByScore(all)
	if len(all) > topN {
		all = all[:topN]
	}
	return all
}

func sortByScore(ms []Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Score > ms[j].Score
	})
}

// Matcher carries the scorer and the default limits used by the API.
type Matcher struct {
	scorer    Scorer
	topN      int
	threshold int
}

// NewMatcher returns a Ratio based matcher. Non-positive topN and a
// threshold outside 0..100 fall back to the defaults.
func NewMatcher(topN, threshold int) *Matcher {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if threshold < 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Matcher{scorer: Ratio, topN: topN, threshold: threshold}
}

// WithScorer swaps the similarity function.
func (m *Matcher) WithScorer(s Scorer) *Matcher {
	m.scorer = s
	return m
}

func (m *Matcher) TopN() int      { return m.topN }
func (m *Matcher) Threshold() int { return m.threshold }

// Match runs MatchNames with the matcher's defaults.
func (m *Matcher) Match(queries, references []string) []Match {
	return matchNames(m.scorer, queries, references, m.topN, m.threshold)
}

// MatchWith runs MatchNames with explicit limits.
func (m *Matcher) MatchWith(queries, references []string, topN, threshold int) []Match {
	return matchNames(m.scorer, queries, references, topN, threshold)
}
