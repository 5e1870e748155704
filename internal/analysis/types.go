package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// NotAvailable is the placeholder used when a date range has no valid dates.
const NotAvailable = "N/A"

// DateRange is an inclusive calendar-date range rendered as YYYY-MM-DD strings.
type DateRange struct {
	Start string
	End   string
}

// EmptyDateRange is returned for sets without any valid date.
var EmptyDateRange = DateRange{Start: NotAvailable, End: NotAvailable}

// IsAvailable reports whether the range was computed from at least one date.
func (r DateRange) IsAvailable() bool {
	return r.Start != NotAvailable && r.End != NotAvailable
}

// String renders the range as "START to END".
func (r DateRange) String() string {
	return r.Start + " to " + r.End
}

// AccountSummary holds headline statistics for one account.
type AccountSummary struct {
	TotalAmount          decimal.Decimal
	LargestTransaction   decimal.Decimal
	SmallestTransaction  decimal.Decimal
	Account              string
	MostFrequentCategory string // Empty when no transaction has a category
	DateRange            DateRange
	DataQuality          DateQuality
	TotalTransactions    int
}

// DateQuality classifies transaction dates relative to the current time.
type DateQuality struct {
	FarFutureTransactions []model.Transaction
	DateRangeAll          DateRange
	DateRangeHistorical   DateRange
	TotalTransactions     int
	HistoricalCount       int
	NearFutureCount       int
	FarFutureCount        int
	InvalidDatesCount     int
}

// DataQualityReport lists future-dated and undated rows of an account.
type DataQualityReport struct {
	FutureTransactions []model.Transaction
	Account            string
	DateRangeValid     DateRange
	TotalRows          int
	FutureDatesCount   int
	NullDatesCount     int
}

// CategoryCount is a category with its number of transactions.
type CategoryCount struct {
	Category string
	Count    int
}

// RecentActivity summarizes the transactions of the last Days days.
type RecentActivity struct {
	TotalAmount     decimal.Decimal
	Account         string
	TopCategories   []CategoryCount
	Days            int
	NumTransactions int
}

// Payment is a single credit card payment.
type Payment struct {
	Amount      decimal.Decimal // Absolute value
	Date        string
	Description string
}

// PaymentPatterns lists the most recent credit card payments of an account.
type PaymentPatterns struct {
	TotalRecentPayments decimal.Decimal
	Account             string
	RecentPayments      []Payment
	PaymentCount        int
}

// Settlement describes the most recent settlement event found in a history.
type Settlement struct {
	Date             time.Time
	Found            bool
	Candidates       int
	PaymentsInWindow int
}

// Confident reports whether several payments cluster around the settlement.
// It only affects messaging; the settlement date is the same either way.
func (s Settlement) Confident() bool {
	return s.Found && s.PaymentsInWindow >= 2
}

// CategoryShare is one category's total and its split between two people.
type CategoryShare struct {
	Total        decimal.Decimal
	Person1Share decimal.Decimal
	Person2Share decimal.Decimal
	Category     string
}

// BalanceSplit is the split of an account's entire recorded history.
type BalanceSplit struct {
	TotalBalance           decimal.Decimal
	TotalExpenses          decimal.Decimal
	TotalPaymentsCredits   decimal.Decimal
	Person1Owes            decimal.Decimal
	Person2Owes            decimal.Decimal
	Account                string
	Person1Name            string
	Person2Name            string
	CategoryBreakdown      []CategoryShare
	DateRange              DateRange
	Person1Percentage      int
	Person2Percentage      int
	NumExpenseTransactions int
}

// ExpenseSplit is the split of expenses recorded after the last settlement.
type ExpenseSplit struct {
	TotalExpenses          decimal.Decimal
	Person1Share           decimal.Decimal
	Person2Share           decimal.Decimal
	Account                string
	Person1Name            string
	Person2Name            string
	SettlementInfo         string
	CategoryBreakdown      []CategoryShare
	DateRange              DateRange
	Settlement             Settlement
	Person1Percentage      int
	Person2Percentage      int
	NumExpenseTransactions int
}

// AccountAnalysis bundles every report computed for one account.
type AccountAnalysis struct {
	Summary  *AccountSummary
	Recent   *RecentActivity
	Payments *PaymentPatterns
	Balance  *BalanceSplit
	Expenses *ExpenseSplit
	Quality  *DataQualityReport
	Account  string
}
