// Package extract derives structured fields from the free-text annotation
// columns of a request: provider name, category, invoice number, due date
// and item description. Each field is extracted independently through an
// ordered list of rules; the first rule that matches wins and a field with
// no matching rule stays null. Provider extraction is always attempted,
// even for transactional-looking notes (the policy choice is recorded in
// DESIGN.md).
package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

var (
	// PRESTADOR: NOME EM MAIUSCULAS, até ';' ou fim da linha
	reProviderLabel = regexp.MustCompile(`PRESTADOR[:\s]+([A-Z][A-Z\s&.]+?)(?:;|\n|$)`)
	// linha começando com palavras em maiúsculas
	reProviderUpper = regexp.MustCompile(`^([A-Z][A-Z\s&.]{3,}?)(?:\s*[-;:]|\s*$)`)
	reInvoice       = regexp.MustCompile(`(?i)\bNF\s*(\d+)`)
	reDueDate       = regexp.MustCompile(`(?i)vencimento\s*(\d{1,2}/\d{1,2}(?:/\d{2,4})?)`)
	reItemDesc      = regexp.MustCompile(`(servico|serviço|produto|compra)\s*:\s*([^-/;\n]+)`)
	reDigitsOnly    = regexp.MustCompile(`^\d+$`)
)

// providerRule is one tier of the provider-name search. Tiers run in order;
// the first non-null result is kept.
type providerRule interface {
	TryMatch(obs []string) (string, bool)
}

// Extractor runs the full rule set over a record's annotation fields.
type Extractor struct {
	providerRules []providerRule
	keywords      foldedRules
	logger        *slog.Logger
}

func New(rules Rules, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		providerRules: []providerRule{
			labelRule{},
			uppercaseLineRule{},
			fallbackRule{noise: compileNoisePrefix(rules.NoisePrefixes)},
		},
		keywords: rules.folded(),
		logger:   logger,
	}
}

// Extract derives all enrichment fields from the annotation columns.
// Empty fields are skipped; extraction of one field never depends on
// another having matched.
func (e *Extractor) Extract(annotations []string) entity.Enrichment {
	obs := make([]string, 0, len(annotations))
	for _, a := range annotations {
		if s := strings.TrimSpace(a); s != "" {
			obs = append(obs, s)
		}
	}

	enr := entity.Enrichment{Tipo: constants.Outro}
	if len(obs) == 0 {
		return enr
	}

	for _, rule := range e.providerRules {
		if name, ok := rule.TryMatch(obs); ok {
			enr.Prestador = &name
			break
		}
	}

	enr.Tipo = e.classify(obs)

	joined := strings.Join(obs, " ")
	if m := firstSubmatch(reInvoice, obs); m != "" {
		enr.NumeroNF = &m
	}
	if m := firstSubmatch(reDueDate, obs); m != "" {
		enr.VencimentoNF = &m
	}
	if d, ok := itemDescription(joined); ok {
		enr.DescricaoItem = &d
	}

	e.logger.Debug("extract.done",
		"provider_found", enr.Prestador != nil,
		"tipo", string(enr.Tipo),
		"invoice_found", enr.NumeroNF != nil,
	)
	return enr
}

// classify picks the request category by keyword presence, checked in fixed
// priority order: purchase, then service, then product.
func (e *Extractor) classify(obs []string) constants.Category {
	text := fold(strings.ToLower(strings.Join(obs, " ")))

	if containsAny(text, e.keywords.purchase) {
		return constants.Compra
	}
	if containsAny(text, e.keywords.service) {
		return constants.Servico
	}
	if containsAny(text, e.keywords.product) {
		return constants.Produto
	}
	return constants.Outro
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// firstSubmatch returns the first capture group of the first field that
// matches, in field order.
func firstSubmatch(re *regexp.Regexp, obs []string) string {
	for _, o := range obs {
		if m := re.FindStringSubmatch(o); m != nil {
			return m[1]
		}
	}
	return ""
}

// itemDescription captures the text after a "servico:"/"produto:"/"compra:"
// label up to the next dash, slash, semicolon or line break.
func itemDescription(joined string) (string, bool) {
	m := reItemDesc.FindStringSubmatch(strings.ToLower(joined))
	if m == nil {
		return "", false
	}
	desc := strings.Join(strings.Fields(m[2]), " ")
	if desc == "" {
		return "", false
	}
	return capitalize(desc), true
}

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// labelRule finds an explicit "PRESTADOR:" label followed by an uppercase
// name. Names of 3 characters or fewer are noise and rejected.
type labelRule struct{}

func (labelRule) TryMatch(obs []string) (string, bool) {
	for _, o := range obs {
		m := reProviderLabel.FindStringSubmatch(o)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), ";."))
		if len([]rune(name)) > 3 {
			return name, true
		}
	}
	return "", false
}

// uppercaseLineRule matches a field that opens with a run of uppercase
// words, terminated by a dash, semicolon, colon or end of line. A single
// word is too ambiguous to be a company name.
type uppercaseLineRule struct{}

func (uppercaseLineRule) TryMatch(obs []string) (string, bool) {
	for _, o := range obs {
		m := reProviderUpper.FindStringSubmatch(o)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), ";."))
		if len(strings.Fields(name)) >= 2 {
			return name, true
		}
	}
	return "", false
}

// fallbackRule takes the first annotation field up to its first semicolon
// or dash and strips a leading labeled noise prefix ("NF ... :",
// "PAGAMENTO REF:", ...). Purely numeric or very short remainders are
// rejected rather than reported as a provider.
type fallbackRule struct {
	noise *regexp.Regexp
}

func compileNoisePrefix(prefixes []string) *regexp.Regexp {
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)^(` + strings.Join(quoted, "|") + `).*?:`)
}

func (r fallbackRule) TryMatch(obs []string) (string, bool) {
	first := obs[0]
	if i := strings.IndexAny(first, ";-"); i >= 0 {
		first = first[:i]
	}
	name := strings.TrimSpace(r.noise.ReplaceAllString(strings.TrimSpace(first), ""))
	if name == "" || reDigitsOnly.MatchString(name) || len([]rune(name)) < 3 {
		return "", false
	}
	return name, true
}
