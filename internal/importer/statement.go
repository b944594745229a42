package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/troskovi/internal/currency"
	"github.com/cleared-dev/troskovi/internal/model"
)

// FormatStatement is the name of the delimited statement format.
const FormatStatement = "statement"

const (
	headerMarker   = "Datum"
	defaultType    = "Unknown"
	colDate        = 0
	colType        = 1
	colDescription = 2
	colAmount      = 3
)

var (
	datePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	// "12,50 EUR", "-1.234,56RSD"
	coded = regexp.MustCompile(`^([-+]?\d[\d.,\s]*?)\s*([A-Za-z]{3})$`)
)

// StatementParser parses tab- or comma-delimited bank exports with columns
// Date (DD.MM.YYYY), Type, Description, Amount. Amounts use "." for
// thousands and "," for decimals.
type StatementParser struct {
	Converter   *currency.Converter
	Categorizer Categorizer
}

// Format returns the parser name.
func (p *StatementParser) Format() string { return FormatStatement }

// Parse reads the whole export and parses it.
func (p *StatementParser) Parse(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading statement: %w", err)
	}
	return p.ParseString(string(data)), nil
}

// ParseString parses raw export text. A first line containing "Datum" is
// treated as a header.
func (p *StatementParser) ParseString(raw string) Result {
	var res Result
	first := true
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.Contains(line, headerMarker) {
				continue
			}
		}

		txn, err := p.parseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: i + 1, Raw: line, Err: err})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res
}

func (p *StatementParser) parseLine(line string) (model.Transaction, error) {
	sep := ","
	if strings.Contains(line, "\t") {
		sep = "\t"
	}
	fields := strings.Split(line, sep)

	rawDate := field(fields, colDate)
	typ := field(fields, colType)
	desc := field(fields, colDescription)
	rawAmount := field(fields, colAmount)

	switch {
	case rawDate == "":
		return model.Transaction{}, fmt.Errorf("%w: date", ErrMissingField)
	case desc == "":
		return model.Transaction{}, fmt.Errorf("%w: description", ErrMissingField)
	case rawAmount == "":
		return model.Transaction{}, fmt.Errorf("%w: amount", ErrMissingField)
	}
	if typ == "" {
		typ = defaultType
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		return model.Transaction{}, err
	}

	conv := converter(p.Converter)
	amount, err := ParseAmount(rawAmount, conv)
	if err != nil {
		return model.Transaction{}, err
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

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// ParseDate parses DD.MM.YYYY into a UTC calendar date. Impossible dates
// such as 31.02.2024 are rejected rather than rolled over.
func ParseDate(s string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w %q: want DD.MM.YYYY", ErrBadDate, s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("%w %q: no such day", ErrBadDate, s)
	}
	return t, nil
}

// ParseAmount parses a statement amount into native currency. Plain amounts
// may carry a " RSD" suffix. Amounts shaped "<number> <CODE>" are converted
// from CODE with conv.
func ParseAmount(s string, conv *currency.Converter) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if m := coded.FindStringSubmatch(s); m != nil {
		n, err := parseNumber(m[1])
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w %q", ErrBadAmount, s)
		}
		if strings.EqualFold(m[2], currency.RSD) {
			return n, nil
		}
		return converter(conv).Convert(n, m[2]), nil
	}

	n, err := parseNumber(strings.Replace(s, " RSD", "", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrBadAmount, s)
	}
	return n, nil
}

// parseNumber drops whitespace and "." thousands separators, then reads ","
// as the decimal point.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}

// FormatAmount renders a native amount in statement notation, the inverse
// of ParseAmount for plain amounts: "-1.234,56". At least two decimals are
// written; converted amounts keep their full precision ("213,925").
func FormatAmount(d decimal.Decimal) string {
	places := int32(2)
	if e := -d.Exponent(); e > places {
		places = e
	}
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
