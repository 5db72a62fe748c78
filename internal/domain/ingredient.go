package domain

import "time"

// FlagCategory names the kind of concern a flagged ingredient raises
type FlagCategory string

const (
	FlagIrritant    FlagCategory = "Irritant"
	FlagComedogenic FlagCategory = "Comedogenic"
)

// Labels observed in the published classifier
const (
	LabelSafe        = "Safe for Sensitive Skin"
	LabelIrritant    = "Contains Mild Irritants"
	LabelComedogenic = "Comedogenic Risk"
)

// Disclaimer is attached to every analysis result
const Disclaimer = "Educational demo, not medical advice. Always patch-test and consult a dermatologist for personal concerns."

// FlagEntry is a single catalog hit in a canonical ingredient string
type FlagEntry struct {
	Category FlagCategory `json:"category"`
	Item     string       `json:"item"`
}

// ClassProbability is the classifier's probability for one label
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Analysis is the full result of analyzing one ingredient list
type Analysis struct {
	Canonical     string             `json:"canonical"`
	Prediction    string             `json:"prediction"`
	Probabilities []ClassProbability `json:"probabilities"`
	Flags         []FlagEntry        `json:"flags"`
	Flagged       bool               `json:"flagged"`
	Disclaimer    string             `json:"disclaimer"`
	Source        string             `json:"source"` // "Model" or "Cache"
	AnalyzedAt    time.Time          `json:"analyzedAt"`
}

// AnalyzeRequest represents an analysis request. A null or missing
// ingredients field is treated the same as an empty list.
type AnalyzeRequest struct {
	Ingredients *string `json:"ingredients"`
}

// Example is a ready-made ingredient list for quick demos
type Example struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
}
