package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/troskovi/internal/importer"
	"github.com/cleared-dev/troskovi/internal/model"
)

// exportDateFormat matches the statement export date format.
const exportDateFormat = "02.01.2006"

const (
	numExportFields = 6
	colDate         = 0
	colType         = 1
	colDescription  = 2
	colAmount       = 3
	colAmountEur    = 4
	colCategory     = 5
)

var exportHeader = []string{"Datum", "Tip", "Opis", "Iznos", "Iznos EUR", "Kategorija"}

// Fields are written unquoted, so separators inside a value become spaces.
var fieldCleaner = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// MarshalRow converts a transaction into an export row. The first four
// columns use statement notation, so an export can be imported again.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numExportFields)
	row[colDate] = t.Date.Format(exportDateFormat)
	row[colType] = t.Type
	row[colDescription] = t.Description
	row[colAmount] = importer.FormatAmount(t.Amount)
	row[colAmountEur] = t.AmountEur.StringFixed(2)
	row[colCategory] = t.Category
	for i := range row {
		row[i] = fieldCleaner.Replace(row[i])
	}
	return row
}

// WriteTSV writes txns as tab-separated rows with a header. Values are not
// quoted; the statement parser reads them back verbatim.
func WriteTSV(w io.Writer, txns []model.Transaction) error {
	if _, err := io.WriteString(w, strings.Join(exportHeader, "\t")+"\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if _, err := io.WriteString(w, strings.Join(MarshalRow(t), "\t")+"\n"); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return nil
}
