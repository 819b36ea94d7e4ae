package constants

import (
	"strings"
)

// Category is the request nature inferred from the annotation text.
type Category string

const (
	Compra  Category = "Compra"
	Servico Category = "Serviço"
	Produto Category = "Produto"
	Outro   Category = "Outro"
)

var allCategories = []Category{
	Compra,
	Servico,
	Produto,
	Outro,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps free-form input to a Category. The boolean reports
// whether the input named a known category.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Outro, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// accent-free spellings show up in older exports
	synonyms := map[string]Category{
		"servico":  Servico,
		"servicos": Servico,
		"serviços": Servico,
		"compras":  Compra,
		"produtos": Produto,
		"outros":   Outro,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Outro, false
}
