package entity

// Provider is one row of the manually maintained provider base, keyed
// elsewhere by the provider name. Any field may be blank when the base
// has not been filled in yet.
type Provider struct {
	CNPJ        string
	Contato     string
	Email       string
	Telefone    string
	Observacoes string
}
