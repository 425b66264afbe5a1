// Package output renders run results as CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/grachmannico95/txengine/internal/domain"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one row per account in the order given. Amounts are
// rendered with exactly four fractional digits.
func WriteAccounts(w io.Writer, accounts []domain.AccountSnapshot) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(accountHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(accountHeader))
	for _, acc := range accounts {
		row[0] = strconv.FormatUint(uint64(acc.Client), 10)
		row[1] = acc.Available.String()
		row[2] = acc.Held.String()
		row[3] = acc.Total.String()
		row[4] = strconv.FormatBool(acc.Locked)

		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", acc.Client, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteDisputed writes the ids of transactions left under dispute.
func WriteDisputed(w io.Writer, disputed []uint32) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write([]string{"tx"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range disputed {
		if err := csvWriter.Write([]string{strconv.FormatUint(uint64(tx), 10)}); err != nil {
			return fmt.Errorf("write tx %d: %w", tx, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
