package payrollimport

import "fmt"

// ProgressFunc receives the import's fractional progress in [0, 1]. Phase
// boundaries are fixed: 0.05 after read, 0.12 after structure validation,
// 0.22 after transform, a trickle from 0.28 approaching (never reaching)
// 0.90 while the batch is stored, then 1.0 on success.
type ProgressFunc func(fraction float64)

const (
	ProgressRead       = 0.05
	ProgressValidated  = 0.12
	ProgressTransform  = 0.22
	ProgressStoreStart = 0.28
	ProgressStoreCap   = 0.90
	ProgressDone       = 1.0
)

// ImportRequest carries an upload into the pipeline.
type ImportRequest struct {
	FileName string
	Content  []byte
	Progress ProgressFunc
}

// Batch is the transformed output of a file before storage.
type Batch struct {
	Records []PayrollRecord `json:"data"`
	Errors  []string        `json:"errors"`
}

// ImportResult summarises a completed import.
type ImportResult struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors,omitempty"`
}

// Summary renders the user-facing completion message, pluralising the error
// count correctly.
func (r ImportResult) Summary() string {
	s := fmt.Sprintf("%d imported, %d updated", r.Imported, r.Updated)
	switch n := len(r.Errors); n {
	case 0:
		return s
	case 1:
		return s + ", 1 error"
	default:
		return fmt.Sprintf("%s, %d errors", s, n)
	}
}
