package stream

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/paystream/payments-engine/internal/models"
)

// Writer renders the final account snapshot as CSV. Amounts are emitted at a
// fixed number of fractional digits with banker's rounding so repeated runs
// over the same input produce byte-identical output.
type Writer struct {
	csv       *csv.Writer
	precision int32
}

func NewWriter(w io.Writer, precision int32) *Writer {
	return &Writer{
		csv:       csv.NewWriter(w),
		precision: precision,
	}
}

// WriteSnapshot writes the header and one row per account. Callers pass the
// engine's snapshot list, which is already sorted by client id.
func (w *Writer) WriteSnapshot(accounts []models.AccountSnapshot) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Available.StringFixedBank(w.precision),
			a.Held.StringFixedBank(w.precision),
			a.Total.StringFixedBank(w.precision),
			strconv.FormatBool(a.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
