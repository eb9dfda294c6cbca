package stream

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paystream/payments-engine/internal/models"
	"github.com/shopspring/decimal"
)

// ErrMalformedRecord wraps every per-record parse failure. The caller skips
// the record and keeps reading; any other non-EOF error from Next is fatal.
var ErrMalformedRecord = errors.New("malformed record")

// Reader turns a transactions CSV into a lazy sequence of records. Input is
// never materialized: each Next call reads exactly one row.
//
// Expected columns: type, client, tx, amount. Dispute, resolve and chargeback
// rows may omit the amount column entirely or leave it empty. Leading
// whitespace and a header row are tolerated.
type Reader struct {
	csv  *csv.Reader
	row  int
	seen bool
}

func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true
	c.ReuseRecord = true
	return &Reader{csv: c}
}

// Next returns the next transaction record. io.EOF signals a cleanly
// exhausted stream. Errors wrapping ErrMalformedRecord are per-record and
// non-fatal; anything else is a stream failure.
func (r *Reader) Next() (models.Transaction, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return models.Transaction{}, fmt.Errorf("row %d: %w: %v", parseErr.Line, ErrMalformedRecord, err)
			}
			return models.Transaction{}, err
		}
		r.row++

		// Skip the header row once.
		if !r.seen {
			r.seen = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "type") {
				continue
			}
		}

		tx, err := r.parse(row)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("row %d: %w: %v", r.row, ErrMalformedRecord, err)
		}
		return tx, nil
	}
}

func (r *Reader) parse(row []string) (models.Transaction, error) {
	if len(row) < 3 || len(row) > 4 {
		return models.Transaction{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(row))
	}

	txType, err := models.ParseTransactionType(row[0])
	if err != nil {
		return models.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("bad client id %q", row[1])
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("bad transaction id %q", row[2])
	}

	tx := models.Transaction{
		Type:   txType,
		Client: models.ClientID(client),
		Tx:     models.TxID(txID),
	}

	rawAmount := ""
	if len(row) == 4 {
		rawAmount = strings.TrimSpace(row[3])
	}

	if tx.Type.HasAmount() {
		if rawAmount == "" {
			return models.Transaction{}, fmt.Errorf("%s requires an amount", tx.Type)
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("bad amount %q", rawAmount)
		}
		tx.Amount = amount
	} else if rawAmount != "" {
		return models.Transaction{}, fmt.Errorf("%s must not carry an amount", tx.Type)
	}

	return tx, nil
}
