package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
	"github.com/rbalmeida/solicitacoes-ledger/internal/entity"
)

// ReadProviderBase loads the manually filled provider base, keyed by
// provider name. Rows with a blank name are skipped; a duplicated name
// keeps the last row.
func ReadProviderBase(path string) (map[string]entity.Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open provider base")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, common.WrapError(err, "read provider base header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[constants.NormalizeHeader(name)] = i
	}
	if _, ok := cols[constants.ProviderColNome]; !ok {
		return nil, common.NewAppError("SCHEMA_MISMATCH",
			fmt.Sprintf("%s: column %q not found", path, constants.ProviderColNome), common.ErrSchemaMismatch)
	}

	base := make(map[string]entity.Provider)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, common.WrapError(err, "read provider base")
		}
		get := fieldGetter(record, cols)
		name := get(constants.ProviderColNome)
		if name == "" {
			continue
		}
		base[name] = entity.Provider{
			CNPJ:        get(constants.ProviderColCNPJ),
			Contato:     get(constants.ProviderColContato),
			Email:       get(constants.ProviderColEmail),
			Telefone:    get(constants.ProviderColTelefone),
			Observacoes: get(constants.ProviderColObs),
		}
	}
	return base, nil
}
