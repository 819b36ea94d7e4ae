// Package batch locates and reads the snapshot export files. Readers
// normalize fields on the way in (amounts to cents, dates to time.Time,
// request ids to int64) so downstream stages never see raw text numbers.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rbalmeida/solicitacoes-ledger/constants"
	"github.com/rbalmeida/solicitacoes-ledger/internal/common"
)

// Discover expands a glob pattern into an ascending, lexicographically
// sorted list of batch files. The exports carry their cut-off date in the
// filename, so name order is chronological order; the merge relies on it.
func Discover(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if constants.IsAllowedExt(filepath.Ext(m)) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, common.NewAppError("MISSING_SOURCE",
			fmt.Sprintf("no batch files match %q", pattern), common.ErrMissingSource)
	}

	sort.Strings(files)
	return files, nil
}
