package model

import "encoding/json"

// Match is one row of a KarmaDecay results page. Every field is optional;
// nil means the page did not carry the value or it could not be parsed.
type Match struct {
	Title        *string  `json:"title" yaml:"title"`
	Link         *string  `json:"link" yaml:"link"`
	ImageLink    *string  `json:"image_link" yaml:"image_link"`
	User         *string  `json:"user" yaml:"user"`
	Subreddit    *string  `json:"subreddit" yaml:"subreddit"`
	Similarity   *float64 `json:"similarity" yaml:"similarity"` // percent
	SubmittedAge *string  `json:"submitted_age" yaml:"submitted_age"`
	Score        *int     `json:"score" yaml:"score"`
	Comments     *int     `json:"comments" yaml:"comments"`
}

// Query identifies one upstream search. It is used verbatim as the cache key.
type Query struct {
	URL         string
	Subreddit   string
	LessSimilar bool
}

// Result holds the matches of one query in page order. LessSimilar is nil
// unless the query asked for it.
//
// Results are shared: a cached Result is handed to every caller of the same
// query, so callers must treat it, its slices and the pointed-to fields as
// read-only.
type Result struct {
	Matches     []Match
	LessSimilar []Match
}

// encodedResult emits less_similar exactly when it was requested, even when
// the group came back empty.
type encodedResult struct {
	Matches     []Match  `json:"matches" yaml:"matches"`
	LessSimilar *[]Match `json:"less_similar,omitempty" yaml:"less_similar,omitempty"`
}

func (r Result) encoded() encodedResult {
	e := encodedResult{Matches: r.Matches}
	if r.LessSimilar != nil {
		ls := r.LessSimilar
		e.LessSimilar = &ls
	}
	return e
}

func (r Result) MarshalJSON() ([]byte, error) { return json.Marshal(r.encoded()) }

func (r Result) MarshalYAML() (interface{}, error) { return r.encoded(), nil }

// Empty returns the result reported when the upstream page could not be read.
func Empty(q Query) Result {
	r := Result{Matches: []Match{}}
	if q.LessSimilar {
		r.LessSimilar = []Match{}
	}
	return r
}
