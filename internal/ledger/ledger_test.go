package ledger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/troskovi/internal/categories"
	"github.com/cleared-dev/troskovi/internal/currency"
	"github.com/cleared-dev/troskovi/internal/importer"
	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(d time.Time, amount, desc, category string) model.Transaction {
	a := decimal.RequireFromString(amount)
	return model.Transaction{
		Date:        d,
		Type:        "POS",
		Description: desc,
		Amount:      a,
		AmountEur:   currency.Default().ToEUR(a),
		Category:    category,
	}
}

func descriptions(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Description
	}
	return out
}

func TestKey_EqualAmountsDifferentScale(t *testing.T) {
	a := txn(date(2024, 1, 1), "-10.50", "X", "")
	b := txn(date(2024, 1, 1), "-10.5", "X", "")
	assert.Equal(t, Key(a), Key(b))
}

func TestMerge_DropsExisting(t *testing.T) {
	existing := []model.Transaction{txn(date(2024, 1, 5), "-10", "A", "")}
	incoming := []model.Transaction{
		txn(date(2024, 1, 5), "-10", "A", "other category"),
		txn(date(2024, 1, 6), "-20", "B", ""),
	}
	merged, added := Merge(existing, incoming)
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"B", "A"}, descriptions(merged))
}

func TestMerge_DropsDuplicatesWithinBatch(t *testing.T) {
	incoming := []model.Transaction{
		txn(date(2024, 1, 5), "-10", "A", ""),
		txn(date(2024, 1, 5), "-10", "A", ""),
	}
	merged, added := Merge(nil, incoming)
	assert.Equal(t, 1, added)
	assert.Len(t, merged, 1)
}

func TestMerge_SameDayDifferentAmountKept(t *testing.T) {
	incoming := []model.Transaction{
		txn(date(2024, 1, 5), "-10", "A", ""),
		txn(date(2024, 1, 5), "-11", "A", ""),
	}
	_, added := Merge(nil, incoming)
	assert.Equal(t, 2, added)
}

func TestMerge_SortsNewestFirst(t *testing.T) {
	incoming := []model.Transaction{
		txn(date(2024, 1, 1), "-1", "old", ""),
		txn(date(2024, 3, 1), "-1", "new", ""),
		txn(date(2024, 2, 1), "-1", "mid", ""),
	}
	merged, _ := Merge(nil, incoming)
	assert.Equal(t, []string{"new", "mid", "old"}, descriptions(merged))
}

func TestMerge_DoesNotModifyExisting(t *testing.T) {
	existing := []model.Transaction{
		txn(date(2024, 1, 1), "-1", "a", ""),
		txn(date(2024, 2, 1), "-1", "b", ""),
	}
	Merge(existing, nil)
	assert.Equal(t, []string{"a", "b"}, descriptions(existing))
}

func TestService_ImportPersistsAndDedupes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc, err := Load(ctx, mem, nil)
	require.NoError(t, err)

	batch := []model.Transaction{txn(date(2024, 3, 15), "-1234.56", "MAXI PRODAVNICA", "Radnje")}
	added, err := svc.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	again, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	require.Equal(t, 1, again.Len())

	got := again.All()[0]
	assert.True(t, got.Date.Equal(date(2024, 3, 15)))
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("-1234.56")))
	assert.Equal(t, "Radnje", got.Category)

	added, err = again.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, again.Len())
}

func TestService_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, store.KeyTransactions, []byte(`{"oops":true}`)))

	svc, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Len())
}

func TestService_LoadAcceptsNumericAmounts(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	doc := `[{"date":"2024-03-15T00:00:00.000Z","type":"POS","description":"MAXI","amount":-1234.56,"amountEur":-10.53,"category":"Radnje"}]`
	require.NoError(t, mem.Set(ctx, store.KeyTransactions, []byte(doc)))

	svc, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	require.Equal(t, 1, svc.Len())
	assert.Equal(t, "-1234.56", svc.All()[0].Amount.StringFixed(2))
}

func TestService_Recategorize(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	_, err = svc.Import(ctx, []model.Transaction{
		txn(date(2024, 1, 1), "-5", "IKEA BEOGRAD", model.DefaultCategory),
		txn(date(2024, 1, 2), "-5", "LIDL", model.DefaultCategory),
	})
	require.NoError(t, err)

	data := model.NewCategoryData(model.Category{Name: "Home", Keywords: []string{"ikea"}})
	changed, err := svc.Recategorize(ctx, categories.Compile(data, ""))
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	again, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	byDesc := map[string]string{}
	for _, tx := range again.All() {
		byDesc[tx.Description] = tx.Category
	}
	assert.Equal(t, "Home", byDesc["IKEA BEOGRAD"])
	assert.Equal(t, model.DefaultCategory, byDesc["LIDL"])
}

func sampleSettings() model.Settings {
	return model.Settings{ExclusionRules: []model.ExclusionRule{{Pattern: "kupovina eur", Enabled: true}}}
}

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		txn(date(2024, 3, 3), "-300", "čaj kod Mike", "Restorani"),
		txn(date(2024, 3, 2), "-50", "cafe Central", "Restorani"),
		txn(date(2024, 3, 1), "1000", "Alpha plata", "Razno"),
		txn(date(2024, 2, 1), "-5000", "KUPOVINA EUR", "Razno"),
		txn(date(2024, 1, 1), "-20", "beta market", "Radnje"),
	}
}

func TestQuery_DefaultsSortByDate(t *testing.T) {
	got := Query{}.Run(sampleTxns(), sampleSettings())
	assert.Len(t, got, 5)
	assert.Equal(t, "čaj kod Mike", got[0].Description)
}

func TestQuery_Search(t *testing.T) {
	got := Query{Search: "CENTRAL"}.Run(sampleTxns(), sampleSettings())
	assert.Equal(t, []string{"cafe Central"}, descriptions(got))
}

func TestQuery_Category(t *testing.T) {
	got := Query{Category: "Restorani"}.Run(sampleTxns(), sampleSettings())
	assert.Len(t, got, 2)

	got = Query{Category: AllCategories}.Run(sampleTxns(), sampleSettings())
	assert.Len(t, got, 5)
}

func TestQuery_ExpensesOnlyAndExclusions(t *testing.T) {
	got := Query{ExpensesOnly: true, ExcludeRules: true}.Run(sampleTxns(), sampleSettings())
	assert.Equal(t, []string{"čaj kod Mike", "cafe Central", "beta market"}, descriptions(got))
}

func TestQuery_SortByAmount(t *testing.T) {
	got := Query{SortBy: SortAmount}.Run(sampleTxns(), sampleSettings())
	assert.Equal(t, "KUPOVINA EUR", got[0].Description)
	assert.Equal(t, "Alpha plata", got[1].Description)
	assert.Equal(t, "beta market", got[4].Description)
}

func TestQuery_SortByName(t *testing.T) {
	got := Query{SortBy: SortName}.Run(sampleTxns(), sampleSettings())
	assert.Equal(t, []string{"Alpha plata", "beta market", "cafe Central", "čaj kod Mike", "KUPOVINA EUR"}, descriptions(got))
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, []string{"Restorani", "Razno", "Radnje"}, CategoryNames(sampleTxns()))
}

func TestWriteTSV_ReimportsThroughStatementParser(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2024, 3, 15), "-1234.56", "MAXI PRODAVNICA", "Radnje"),
		txn(date(2024, 3, 1), "150000", "ZENCODE", "Razno"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Datum\tTip\tOpis\tIznos\tIznos EUR\tKategorija", lines[0])
	assert.Equal(t, "15.03.2024\tPOS\tMAXI PRODAVNICA\t-1.234,56\t-10.53\tRadnje", lines[1])

	p := &importer.StatementParser{Converter: currency.Default()}
	res := p.ParseString(buf.String())
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)
	for i := range txns {
		assert.Equal(t, Key(txns[i]), Key(res.Transactions[i]))
	}
}

func TestWriteTSV_ReimportIsLossless(t *testing.T) {
	p := &importer.StatementParser{Converter: currency.Default()}
	orig := p.ParseString("15.03.2024\tPOS\tAMAZON\t1,99 USD\n" +
		"16.03.2024\tPOS\tDOO \"MAXI\" BG\t-100,00 RSD\n" +
		"17.03.2024\tPOS\tIDEA, NOVI SAD\t-12,5 EUR\n")
	require.Empty(t, orig.Errors)
	require.Len(t, orig.Transactions, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, orig.Transactions))
	assert.Contains(t, buf.String(), "\tDOO \"MAXI\" BG\t")
	assert.Contains(t, buf.String(), "\t213,925\t")

	again := p.ParseString(buf.String())
	require.Empty(t, again.Errors)
	for i := range orig.Transactions {
		assert.Equal(t, Key(orig.Transactions[i]), Key(again.Transactions[i]))
	}

	merged, added := Merge(orig.Transactions, again.Transactions)
	assert.Zero(t, added)
	assert.Len(t, merged, 3)
}

func TestMarshalRow_FlattensSeparators(t *testing.T) {
	row := MarshalRow(txn(date(2024, 3, 15), "-1", "LINE ONE\nLINE\tTWO", "Razno"))
	assert.Equal(t, "LINE ONE LINE TWO", row[colDescription])
}

func TestService_SaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc, err := Load(ctx, mem, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx))

	data, err := mem.Get(ctx, store.KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
