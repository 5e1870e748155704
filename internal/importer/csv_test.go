package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Date,Description,Original Description,Category,Amount,Status
2025-02-03,Grocery Store,GROCERY STORE #12 SPRINGFIELD,Food & Dining,-54.21,Posted
2025-02-04,Credit Card Payment,USAA CREDIT CARD PAYMENT,,500.00,Posted
02/05/2025,Gas,SHELL OIL 5744,Auto & Transport,"-1,020.50",Pending
not-a-date,Coffee,COFFEE SHOP,Food & Dining,-4.50,Posted

2025-02-06,,ONLINE TRANSFER,,($25.00),Posted
`

func utcCSVParser() *CSVParser {
	return &CSVParser{location: time.UTC}
}

func TestCSVParser_Parse(t *testing.T) {
	transactions, err := utcCSVParser().Parse(context.Background(), strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, transactions, 5)

	first := transactions[0]
	assert.Equal(t, "2025-02-03", first.FormatDate())
	assert.Equal(t, "Grocery Store", first.Description)
	assert.Equal(t, "GROCERY STORE #12 SPRINGFIELD", first.OriginalDescription)
	assert.Equal(t, "Food & Dining", first.Category)
	assert.Equal(t, "-54.21", first.Amount.StringFixed(2))
	assert.Equal(t, "Posted", first.Status)

	assert.False(t, transactions[1].HasCategory())
	assert.True(t, transactions[1].Amount.IsPositive())

	gas := transactions[2]
	assert.Equal(t, "2025-02-05", gas.FormatDate())
	assert.Equal(t, "-1020.50", gas.Amount.StringFixed(2))
	assert.Equal(t, "Pending", gas.Status)

	coffee := transactions[3]
	assert.False(t, coffee.HasDate(), "unparseable dates are kept as missing")
	assert.Equal(t, "N/A", coffee.FormatDate())

	transfer := transactions[4]
	assert.Equal(t, "ONLINE TRANSFER", transfer.Description, "falls back to the original description")
	assert.Equal(t, "-25.00", transfer.Amount.StringFixed(2))
}

func TestCSVParser_ColumnsInAnyOrder(t *testing.T) {
	data := "\ufeffamount, category ,DATE,description\n12.00,Fun,2025-03-01,Cinema\n"

	transactions, err := utcCSVParser().Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Cinema", transactions[0].Description)
	assert.Equal(t, "Fun", transactions[0].Category)
	assert.Equal(t, "2025-03-01", transactions[0].FormatDate())
	assert.Empty(t, transactions[0].Status)
}

func TestCSVParser_SkipsBadRows(t *testing.T) {
	data := "Date,Description,Amount\n2025-03-01,Cinema,twelve\n2025-03-02,,5.00\n2025-03-03,Snacks,3.00\n"

	transactions, err := utcCSVParser().Parse(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "Snacks", transactions[0].Description)
}

func TestCSVParser_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no amount", data: "Date,Description\n2025-01-01,Coffee\n"},
		{name: "no date", data: "Description,Amount\nCoffee,-4.00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utcCSVParser().Parse(context.Background(), strings.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrMissingColumn)
		})
	}
}

func TestCSVParser_Empty(t *testing.T) {
	transactions, err := utcCSVParser().Parse(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, transactions)

	transactions, err = utcCSVParser().Parse(context.Background(), strings.NewReader("Date,Description,Amount\n"))
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCSVParser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := utcCSVParser().Parse(ctx, strings.NewReader(sampleExport))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "-12.34", want: "-12.34"},
		{raw: "$1,234.50", want: "1234.50"},
		{raw: "(12.00)", want: "-12.00"},
		{raw: "-$3.10", want: "-3.10"},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
