package usecase

import "github.com/skinlens/backend/internal/domain"

// quickExamples are ready-made lists for trying the analyzer
var quickExamples = []domain.Example{
	{Name: "Gentle serum", Ingredients: "Aqua, Glycerin, Niacinamide, Panthenol, Sodium Hyaluronate"},
	{Name: "Rich cream", Ingredients: "Aqua, Mineral Oil, Shea Butter, Lanolin"},
}

// Examples returns the quick example ingredient lists
func Examples() []domain.Example {
	return append([]domain.Example(nil), quickExamples...)
}
