package batch

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
)

// LoadAliases reads a YAML map of column spellings to canonical names and
// overlays it on the built-in aliases. The upstream system has renamed
// columns between report generations ("Vl. Customedio" became
// "Vl.Solicitação"); the alias map lets old exports keep loading.
func LoadAliases(path string) (map[string]string, error) {
	aliases := make(map[string]string, len(constants.DefaultAliases))
	for k, v := range constants.DefaultAliases {
		aliases[k] = v
	}
	if path == "" {
		return aliases, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read aliases file")
	}
	var extra map[string]string
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, common.WrapError(err, "decode aliases file")
	}
	for k, v := range extra {
		aliases[constants.NormalizeHeader(k)] = constants.NormalizeHeader(v)
	}
	return aliases, nil
}
