package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/skinlens/backend/internal/domain"
)

// LinearModel reproduces predict / predict_proba of a tf-idf vectorizer
// followed by a logistic-regression style linear classifier. It holds no
// mutable state and is safe for concurrent use.
type LinearModel struct {
	version    string
	classes    []string
	vectorizer *vectorizer
	coef       [][]float64
	intercept  []float64
	multiClass string
}

// LoadLinearModel reads and validates a model artifact from path
func LoadLinearModel(path string) (*LinearModel, error) {
	artifact, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return NewLinearModel(artifact)
}

// NewLinearModel builds a model from an in-memory artifact
func NewLinearModel(artifact *Artifact) (*LinearModel, error) {
	if artifact == nil {
		return nil, fmt.Errorf("%w: nil artifact", domain.ErrInvalidModel)
	}
	if err := artifact.validate(); err != nil {
		return nil, err
	}

	vec, err := newVectorizer(artifact.Vectorizer)
	if err != nil {
		return nil, err
	}

	multiClass := artifact.Classifier.MultiClass
	if multiClass == "" {
		multiClass = "multinomial"
	}

	return &LinearModel{
		version:    artifact.Version,
		classes:    append([]string(nil), artifact.Classes...),
		vectorizer: vec,
		coef:       artifact.Classifier.Coef,
		intercept:  artifact.Classifier.Intercept,
		multiClass: multiClass,
	}, nil
}

// Version returns the artifact's version string, if any
func (m *LinearModel) Version() string {
	return m.version
}

// Labels returns the class labels in model order
func (m *LinearModel) Labels() []string {
	return append([]string(nil), m.classes...)
}

// Predict returns the most likely label for canonical text
func (m *LinearModel) Predict(ctx context.Context, canonical string) (string, error) {
	return m.label(m.decisionFunction(canonical)), nil
}

// PredictProba returns the probability of every label, in model order
func (m *LinearModel) PredictProba(ctx context.Context, canonical string) ([]domain.ClassProbability, error) {
	return m.probabilities(m.decisionFunction(canonical)), nil
}

// Classify returns Predict and PredictProba from one pass over the text
func (m *LinearModel) Classify(ctx context.Context, canonical string) (string, []domain.ClassProbability, error) {
	scores := m.decisionFunction(canonical)
	return m.label(scores), m.probabilities(scores), nil
}

func (m *LinearModel) label(scores []float64) string {
	if m.isBinary() {
		if scores[0] > 0 {
			return m.classes[1]
		}
		return m.classes[0]
	}

	// Ties go to the first class
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return m.classes[best]
}

func (m *LinearModel) probabilities(scores []float64) []domain.ClassProbability {
	var probs []float64
	switch {
	case m.isBinary():
		p := sigmoid(scores[0])
		probs = []float64{1 - p, p}
	case m.multiClass == "ovr":
		probs = make([]float64, len(scores))
		var sum float64
		for i, s := range scores {
			probs[i] = sigmoid(s)
			sum += probs[i]
		}
		for i := range probs {
			probs[i] /= sum
		}
	default:
		probs = softmax(scores)
	}

	out := make([]domain.ClassProbability, len(m.classes))
	for i, label := range m.classes {
		out[i] = domain.ClassProbability{Label: label, Probability: probs[i]}
	}
	return out
}

func (m *LinearModel) isBinary() bool {
	return len(m.classes) == 2 && len(m.coef) == 1
}

// decisionFunction returns one raw score per coef row
func (m *LinearModel) decisionFunction(canonical string) []float64 {
	x := m.vectorizer.transform(canonical)

	scores := make([]float64, len(m.coef))
	for k, row := range m.coef {
		score := m.intercept[k]
		for idx, w := range x {
			score += row[idx] * w
		}
		scores[k] = score
	}
	return scores
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
