package report

import (
	"strings"
	"text/template"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
)

var funcs = template.FuncMap{
	"dollar": analysis.FormatDollar,
	"cell":   escapeCell,
}

// escapeCell keeps free text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(`# Bank Accounts Transaction Report

## Overview
This report summarizes key insights and statistics for your bank accounts, based on the latest imported transaction data.

---

## Account Summaries

| Account | Total Transactions | Total Amount | Largest Transaction | Most Frequent Category | Date Range |
|---|---|---|---|---|---|
{{- range .Accounts}}
{{- if .Err}}
| {{.Label}} | *unavailable* | | | | |
{{- else}}
| {{.Label}} | {{.Summary.TotalTransactions}} | {{dollar .Summary.TotalAmount}} | {{dollar .Summary.LargestTransaction}} | {{with .Summary.MostFrequentCategory}}{{cell .}}{{else}}N/A{{end}} | {{.Summary.DateRange}} |
{{- end}}
{{- end}}
{{range .Accounts}}{{if .Err}}
> **{{.Label}}:** {{.Err}}
{{end}}{{end}}
---

## Current Balance Analysis

**Split Ratio:** {{.Split.Person1Name}} {{.Split.Person1Percentage}}% / {{.Split.Person2Name}} {{.Split.Person2Percentage}}%

*This section shows the total outstanding balance and how it should be split based on your agreed percentage.*
{{range .Accounts}}{{if not .Err}}{{$b := .Balance}}
### {{.Name}} Current Balance
- **Total Outstanding Balance:** {{dollar $b.TotalBalance}}
- **Total Expenses (All Time):** {{dollar $b.TotalExpenses}}
- **Total Payments Made:** {{dollar $b.TotalPaymentsCredits}}
- **{{$b.Person1Name}} Owes:** {{dollar $b.Person1Owes}}
- **{{$b.Person2Name}} Owes:** {{dollar $b.Person2Owes}}

#### Recent {{.Name}} Payments
{{if .Payments.RecentPayments}}| Date | Amount | Description |
|---|---|---|
{{- range .Payments.RecentPayments}}
| {{.Date}} | {{dollar .Amount}} | {{cell .Description}} |
{{- end}}
{{else}}No recent payments found
{{end}}
#### {{.Name}} Expense Breakdown (All Time)
{{if $b.CategoryBreakdown}}| Category | Total Amount | {{$b.Person1Name}} ({{$b.Person1Percentage}}%) | {{$b.Person2Name}} ({{$b.Person2Percentage}}%) |
|---|---|---|---|
{{- range $b.CategoryBreakdown}}
| {{cell .Category}} | {{dollar .Total}} | {{dollar .Person1Share}} | {{dollar .Person2Share}} |
{{- end}}
| **TOTAL EXPENSES** | **{{dollar $b.TotalExpenses}}** | **{{dollar .ExpenseTotals.Person1}}** | **{{dollar .ExpenseTotals.Person2}}** |
{{else}}No expense data available
{{end}}{{end}}{{end}}
### 💰 **SETTLEMENT SUMMARY** 💰
**Total Current Balance Across All Accounts:** {{dollar .Combined.Balance}}

**💸 {{.Split.Person1Name}} owes:** {{dollar .Combined.Person1}}
**💸 {{.Split.Person2Name}} owes:** {{dollar .Combined.Person2}}

---

## New Expenses Since Last Settlement

*This section shows only new expenses since the last detected settlement payments.*
{{range .Accounts}}{{if not .Err}}{{$e := .Expenses}}
### {{.Name}} New Expenses
- **Period:** {{$e.SettlementInfo}}
- **New Expenses:** {{dollar $e.TotalExpenses}}
- **{{$e.Person1Name}} Share:** {{dollar $e.Person1Share}}
- **{{$e.Person2Name}} Share:** {{dollar $e.Person2Share}}
- **Expense Transactions:** {{$e.NumExpenseTransactions}}
{{- if gt $e.NumExpenseTransactions 0}}
- **Date Range:** {{$e.DateRange}}
{{- end}}
{{- if and $e.Settlement.Found (not $e.Settlement.Confident)}}
- *Settlement date based on a single payment.*
{{- end}}
{{end}}{{end}}
---

## Recent Activity (Last {{.RecentDays}} Days)
{{range .Accounts}}{{if not .Err}}
### {{.Name}}
- **Number of Transactions:** {{.Recent.NumTransactions}}
- **Total Amount:** {{dollar .Recent.TotalAmount}}
- **Top 3 Categories:**

{{if .Recent.TopCategories}}| Category | Count |
|---|---|
{{- range .Recent.TopCategories}}
| {{cell .Category}} | {{.Count}} |
{{- end}}{{else}}None{{end}}
{{if .Chart}}
![{{.Name}} Top Categories Pie Chart](./{{.Chart}})
{{end}}{{end}}{{end}}
---

## Data Quality
{{range .Accounts}}{{if not .Err}}{{$q := .Quality}}
### {{.Name}}
- **Total Rows:** {{$q.TotalRows}}
- **Future-Dated Rows:** {{$q.FutureDatesCount}}
- **Rows Without a Valid Date:** {{$q.NullDatesCount}}
- **Valid Date Range:** {{$q.DateRangeValid}}
{{- if $q.FutureTransactions}}

| Date | Amount | Description |
|---|---|---|
{{- range $q.FutureTransactions}}
| {{.FormatDate}} | {{dollar .Amount}} | {{cell .Description}} |
{{- end}}
{{- end}}
{{end}}{{end}}
---

*Report generated on: {{.Generated}}*
`))
