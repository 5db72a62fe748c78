package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/skinlens/backend/internal/domain"
)

// defaultTokenPattern selects tokens of two or more word characters
const defaultTokenPattern = `\b\w\w+\b`

// vectorizer turns canonical text into a sparse, normalized tf-idf vector
type vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	minN, maxN  int
	token       *regexp.Regexp
	sublinearTF bool
	norm        string
}

func newVectorizer(p VectorizerParams) (*vectorizer, error) {
	pattern := p.TokenPattern
	if pattern == "" {
		pattern = defaultTokenPattern
	}
	// Unicode mode is implied for Go regexps
	pattern = strings.TrimPrefix(pattern, "(?u)")

	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token pattern %q: %v", domain.ErrInvalidModel, p.TokenPattern, err)
	}

	minN, maxN := p.NgramRange[0], p.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}

	norm := p.Norm
	if norm == "" {
		norm = "l2"
	}

	return &vectorizer{
		vocabulary:  p.Vocabulary,
		idf:         p.IDF,
		minN:        minN,
		maxN:        maxN,
		token:       token,
		sublinearTF: p.SublinearTF,
		norm:        norm,
	}, nil
}

// terms returns the word n-grams of text, shortest first
func (v *vectorizer) terms(text string) []string {
	tokens := v.token.FindAllString(text, -1)

	var out []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// transform builds the feature vector for text. Terms outside the
// vocabulary are ignored.
func (v *vectorizer) transform(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, term := range v.terms(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	for idx, tf := range counts {
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if len(v.idf) > 0 {
			tf *= v.idf[idx]
		}
		counts[idx] = tf
	}

	var total float64
	switch v.norm {
	case "l2":
		for _, w := range counts {
			total += w * w
		}
		total = math.Sqrt(total)
	case "l1":
		for _, w := range counts {
			total += math.Abs(w)
		}
	}
	if total > 0 {
		for idx := range counts {
			counts[idx] /= total
		}
	}

	return counts
}
