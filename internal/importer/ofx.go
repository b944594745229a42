package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/troskovi/internal/currency"
	"github.com/cleared-dev/troskovi/internal/model"
)

// FormatOFX is the name of the OFX/QFX format.
const FormatOFX = "ofx"

// OFXParser reads bank and credit card statements from OFX files. Amounts
// are taken as native currency.
type OFXParser struct {
	Converter   *currency.Converter
	Categorizer Categorizer
}

// Format returns the parser name.
func (p *OFXParser) Format() string { return FormatOFX }

// Parse reads every bank and credit card transaction list in the response.
func (p *OFXParser) Parse(r io.Reader) (Result, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return Result{}, fmt.Errorf("parsing OFX: %w", err)
	}

	var txns []ofxgo.Transaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			txns = append(txns, stmt.BankTranList.Transactions...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			txns = append(txns, stmt.BankTranList.Transactions...)
		}
	}

	conv := converter(p.Converter)
	var res Result
	for i, txn := range txns {
		t, err := p.convert(txn, conv)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: i + 1, Raw: txn.FiTID.String(), Err: err})
			continue
		}
		res.Transactions = append(res.Transactions, t)
	}
	return res, nil
}

func (p *OFXParser) convert(txn ofxgo.Transaction, conv *currency.Converter) (model.Transaction, error) {
	posted := txn.DtPosted.Time
	if posted.IsZero() {
		return model.Transaction{}, fmt.Errorf("%w: posted date", ErrMissingField)
	}
	date := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)

	desc := strings.TrimSpace(txn.Name.String())
	if desc == "" {
		desc = strings.TrimSpace(txn.Memo.String())
	}
	if desc == "" {
		return model.Transaction{}, fmt.Errorf("%w: name and memo", ErrMissingField)
	}

	amount, err := decimal.NewFromString(txn.TrnAmt.Rat.FloatString(4))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %v", ErrBadAmount, err)
	}
	amount = amount.Round(2)

	typ := fmt.Sprint(txn.TrnType)
	if typ == "" {
		typ = defaultType
	}

	return model.Transaction{
		Date:        date,
		Type:        typ,
		Description: desc,
		Amount:      amount,
		AmountEur:   conv.ToEUR(amount),
		Category:    categorize(p.Categorizer, desc),
	}, nil
}
