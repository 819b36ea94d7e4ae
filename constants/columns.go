package constants

import "strings"

// Canonical column names of the snapshot exports. The upstream system has
// renamed a few of these between report generations; readers resolve other
// spellings through an alias map before lookup.
const (
	ColSolicitacao   = "Solicitação"
	ColEmpresa       = "Empresa"
	ColData          = "Data"
	ColSituacao      = "Situação"
	ColUsuario       = "Usuário"
	ColNrNf          = "Nr. Nf"
	ColSku           = "Sku"
	ColDtPreventrega = "Dt. Preventrega"
	ColPedido        = "Pedido"
	ColPrioridade    = "Ds. Prioridade"
	ColDsCompra      = "Ds. Compra"
	ColValor         = "Vl.Solicitação"
	ColCodCcusto     = "Cod. Ccusto"
	ColObs1          = "Obs lin1"
	ColObs2          = "Obs lin2"
	ColObs3          = "Obs lin3"
	ColObs4          = "Obs lin4"
)

// Ledger file column names, in output order. The ledger keeps the
// annotation columns so enrichment can be recomputed from it at any time.
const (
	LedgerColData     = "Data"
	LedgerColValor    = "Vl_Solicitacao_Total"
	LedgerColSituacao = "Situacao"
	LedgerColUsuario  = "Usuario"
	LedgerColObs1     = "Obs_lin1"
	LedgerColObs2     = "Obs_lin2"
	LedgerColObs3     = "Obs_lin3"
	LedgerColObs4     = "Obs_lin4"
	LedgerColPrior    = "Ds_Prioridade"
	LedgerColCompra   = "Ds_Compra"
	LedgerColPrev     = "Dt_Preventrega"
	LedgerColNrNf     = "Nr_nf"
	LedgerColCcusto   = "Cod_Ccusto"
)

// LedgerColumns is the full ledger header.
var LedgerColumns = []string{
	ColEmpresa,
	LedgerColData,
	LedgerColSituacao,
	LedgerColUsuario,
	ColSolicitacao,
	LedgerColNrNf,
	ColSku,
	LedgerColPrev,
	ColPedido,
	LedgerColPrior,
	LedgerColCompra,
	LedgerColValor,
	LedgerColCcusto,
	LedgerColObs1,
	LedgerColObs2,
	LedgerColObs3,
	LedgerColObs4,
}

// Provider base column names. The file is generated with only the name
// filled in; the remaining columns are completed by hand and read back
// when relating requests to providers.
const (
	ProviderColNome     = "Nome_Prestador"
	ProviderColCNPJ     = "CNPJ"
	ProviderColContato  = "Contato"
	ProviderColEmail    = "Email"
	ProviderColTelefone = "Telefone"
	ProviderColObs      = "Observacoes"
)

// LedgerDateLayout is how dates are rendered in the ledger file.
const LedgerDateLayout = "2006-01-02"

// RequiredColumns must be present in every batch; a batch missing any of
// them is rejected as a schema mismatch.
var RequiredColumns = []string{
	ColSolicitacao,
	ColEmpresa,
	ColData,
	ColValor,
}

// DefaultAliases maps column spellings seen in older export generations to
// their canonical names.
var DefaultAliases = map[string]string{
	"Vl. Customedio": ColValor,
	"Vl.Solicitacao": ColValor,
	"Solicitacao":    ColSolicitacao,
	"Situacao":       ColSituacao,
	"Usuario":        ColUsuario,
	"Ds.Prioridade":  ColPrioridade,
	"Ds.Compra":      ColDsCompra,
}

// NormalizeHeader trims the stray whitespace the exporter leaves on some
// header cells ("Tipo ", "NF ").
func NormalizeHeader(name string) string {
	return strings.TrimSpace(name)
}
