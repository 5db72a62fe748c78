package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skinlens/backend/internal/domain"
)

// Artifact is the JSON export of a pretrained tf-idf + linear model pipeline.
//
//	{
//	  "classes": ["Comedogenic Risk", "Contains Mild Irritants", "Safe for Sensitive Skin"],
//	  "vectorizer": {"vocabulary": {"aqua": 0, ...}, "idf": [...], "ngram_range": [1, 2]},
//	  "classifier": {"coef": [[...], ...], "intercept": [...], "multi_class": "multinomial"}
//	}
type Artifact struct {
	Version    string           `json:"version,omitempty"`
	Classes    []string         `json:"classes"`
	Vectorizer VectorizerParams `json:"vectorizer"`
	Classifier LinearParams     `json:"classifier"`
}

// VectorizerParams describes the tf-idf feature extraction step
type VectorizerParams struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf,omitempty"` // omitted when idf weighting is off
	NgramRange   [2]int         `json:"ngram_range"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty"` // "l2" (default), "l1" or "none"
}

// LinearParams describes the linear classification step
type LinearParams struct {
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
	MultiClass string      `json:"multi_class,omitempty"` // "multinomial" (default) or "ovr"
}

// ReadArtifact loads a model artifact from a JSON file
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer f.Close()

	var artifact Artifact
	if err := json.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidModel, path, err)
	}
	return &artifact, nil
}

// numFeatures is the width of the feature space implied by the vocabulary
func (v *VectorizerParams) numFeatures() int {
	n := 0
	for _, idx := range v.Vocabulary {
		if idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// validate checks that the artifact's shapes are consistent
func (a *Artifact) validate() error {
	nClasses := len(a.Classes)
	if nClasses < 2 {
		return fmt.Errorf("%w: need at least 2 classes, got %d", domain.ErrInvalidModel, nClasses)
	}

	if len(a.Vectorizer.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", domain.ErrInvalidModel)
	}
	for term, idx := range a.Vectorizer.Vocabulary {
		if idx < 0 {
			return fmt.Errorf("%w: negative index for term %q", domain.ErrInvalidModel, term)
		}
	}
	nFeatures := a.Vectorizer.numFeatures()

	if len(a.Vectorizer.IDF) != 0 && len(a.Vectorizer.IDF) != nFeatures {
		return fmt.Errorf("%w: idf has %d entries, vocabulary has %d features",
			domain.ErrInvalidModel, len(a.Vectorizer.IDF), nFeatures)
	}

	lo, hi := a.Vectorizer.NgramRange[0], a.Vectorizer.NgramRange[1]
	if !(lo == 0 && hi == 0) && (lo < 1 || hi < lo) {
		return fmt.Errorf("%w: bad ngram range [%d, %d]", domain.ErrInvalidModel, lo, hi)
	}

	switch a.Vectorizer.Norm {
	case "", "l2", "l1", "none":
	default:
		return fmt.Errorf("%w: unknown norm %q", domain.ErrInvalidModel, a.Vectorizer.Norm)
	}

	rows := len(a.Classifier.Coef)
	binary := nClasses == 2 && rows == 1
	if rows != nClasses && !binary {
		return fmt.Errorf("%w: coef has %d rows for %d classes", domain.ErrInvalidModel, rows, nClasses)
	}
	if len(a.Classifier.Intercept) != rows {
		return fmt.Errorf("%w: intercept has %d entries for %d coef rows",
			domain.ErrInvalidModel, len(a.Classifier.Intercept), rows)
	}
	for i, row := range a.Classifier.Coef {
		if len(row) != nFeatures {
			return fmt.Errorf("%w: coef row %d has %d weights, want %d",
				domain.ErrInvalidModel, i, len(row), nFeatures)
		}
	}

	switch a.Classifier.MultiClass {
	case "", "multinomial", "ovr":
	default:
		return fmt.Errorf("%w: unknown multi_class %q", domain.ErrInvalidModel, a.Classifier.MultiClass)
	}

	return nil
}
