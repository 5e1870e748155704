package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that lost their closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXParser parses OFX and QFX statement downloads. Amounts keep the
// statement's sign: debits are negative.
type OFXParser struct {
	location *time.Location
}

// NewOFXParser creates an OFX/QFX parser.
func NewOFXParser() *OFXParser {
	return &OFXParser{location: time.Local}
}

// Extensions implements Parser.
func (p *OFXParser) Extensions() []string { return []string{".ofx", ".qfx"} }

// preprocess fixes common formatting issues in bank-generated OFX files.
func (p *OFXParser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads every bank and credit card statement in the file.
func (p *OFXParser) Parse(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList.Transactions)...)
		}
	}

	slog.Debug("Parsed OFX file",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *OFXParser) convertList(list []ofxgo.Transaction) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(list))
	for i := range list {
		txn, err := p.convertTransaction(&list[i])
		if err != nil {
			slog.Warn("Skipping OFX transaction", "fitid", string(list[i].FiTID), "error", err)
			continue
		}
		transactions = append(transactions, txn)
	}
	return transactions
}

func (p *OFXParser) convertTransaction(ofxTx *ofxgo.Transaction) (model.Transaction, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	txn := model.Transaction{
		Description:         extractMerchantName(ofxTx),
		OriginalDescription: strings.TrimSpace(string(ofxTx.Name)),
		Amount:              amount,
		Status:              "Posted",
	}
	if txn.OriginalDescription == "" {
		txn.OriginalDescription = strings.TrimSpace(string(ofxTx.Memo))
	}
	if txn.Description == "" {
		txn.Description = txn.OriginalDescription
	}
	if txn.Description == "" {
		return model.Transaction{}, errors.New("transaction has no name")
	}

	if !ofxTx.DtPosted.IsZero() {
		y, m, d := ofxTx.DtPosted.In(p.location).Date()
		txn.Date = time.Date(y, m, d, 0, 0, 0, 0, p.location)
	}

	// OFX carries no categories; a few transaction types imply one.
	switch fmt.Sprintf("%v", ofxTx.TrnType) {
	case "INT":
		txn.Category = "Interest"
	case "FEE", "SRVCHG":
		txn.Category = "Bank Fees"
	case "ATM":
		txn.Category = "Cash & ATM"
	}

	return txn, nil
}

// extractMerchantName prefers PAYEE, then NAME with card-network prefixes
// removed, then MEMO when NAME is generic.
func extractMerchantName(tx *ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps at the start of the name.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
