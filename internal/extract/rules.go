package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Rules holds the keyword tables driving classification and the noise
// prefixes stripped by the provider fallback tier. The zero value is not
// usable; start from DefaultRules.
type Rules struct {
	PurchaseKeywords []string `json:"purchase_keywords"`
	ServiceKeywords  []string `json:"service_keywords"`
	ProductKeywords  []string `json:"product_keywords"`
	NoisePrefixes    []string `json:"noise_prefixes"`
}

// DefaultRules returns the keyword tables observed in the upstream
// annotation text. Keywords are matched against a lowercased,
// diacritic-folded concatenation of all annotation fields.
func DefaultRules() Rules {
	return Rules{
		PurchaseKeywords: []string{"compra", "favor seguir", "link", "email"},
		ServiceKeywords:  []string{"servico"},
		ProductKeywords:  []string{"produto"},
		NoisePrefixes:    []string{"NF", "NOTA", "VENCIMENTO", "PAGAMENTO", "REF", "REFERENTE"},
	}
}

// rulesSchema constrains the optional rules-override file. Same approach as
// validating any externally supplied JSON before trusting it.
const rulesSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"purchase_keywords": {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1},
		"service_keywords":  {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1},
		"product_keywords":  {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1},
		"noise_prefixes":    {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
	}
}`

// LoadRules reads a JSON rules file and overlays it onto the defaults.
// Fields absent from the file keep their default tables.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}

	schema, err := jsonschema.CompileString("rules.schema.json", rulesSchema)
	if err != nil {
		return rules, fmt.Errorf("compile rules schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return rules, fmt.Errorf("decode rules file: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return rules, fmt.Errorf("validate rules file: %w", err)
	}

	var overlay Rules
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return rules, fmt.Errorf("decode rules file: %w", err)
	}

	if len(overlay.PurchaseKeywords) > 0 {
		rules.PurchaseKeywords = overlay.PurchaseKeywords
	}
	if len(overlay.ServiceKeywords) > 0 {
		rules.ServiceKeywords = overlay.ServiceKeywords
	}
	if len(overlay.ProductKeywords) > 0 {
		rules.ProductKeywords = overlay.ProductKeywords
	}
	if len(overlay.NoisePrefixes) > 0 {
		rules.NoisePrefixes = overlay.NoisePrefixes
	}
	return rules, nil
}

// fold keyword tables once so Extract does not re-fold per record
func (r Rules) folded() foldedRules {
	return foldedRules{
		purchase: foldAll(r.PurchaseKeywords),
		service:  foldAll(r.ServiceKeywords),
		product:  foldAll(r.ProductKeywords),
	}
}

type foldedRules struct {
	purchase []string
	service  []string
	product  []string
}

func foldAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = fold(strings.ToLower(k))
	}
	return out
}
