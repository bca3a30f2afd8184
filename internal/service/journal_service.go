package service

import (
	"context"
	"errors"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrSameAccount     = errors.New("debit and credit accounts must differ")
)

// Ledger account names seeded at first run. Postings refer to accounts by
// name so the chart can be extended without touching the recording code.
const (
	AccCash            = "Cash"
	AccBank            = "Bank"
	AccReceivable      = "Accounts Receivable"
	AccInventory       = "Inventory"
	AccPayable         = "Accounts Payable"
	AccSalesTaxPayable = "Sales Tax Payable"
	AccOwnersEquity    = "Owner's Equity"
	AccRetainedEarning = "Retained Earnings"
	AccSalesRevenue    = "Sales Revenue"
	AccSalesDiscounts  = "Sales Discounts"
	AccCOGS            = "Cost of Goods Sold"
)

// EntryInput is one balanced posting, accounts referenced by name.
type EntryInput struct {
	Date          time.Time
	Description   string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	ReferenceID   *uint
	ReferenceType string
}

// AccountLine is one account with its computed balance.
type AccountLine struct {
	ID      uint              `json:"id"`
	Name    string            `json:"name"`
	Type    model.AccountType `json:"type"`
	Balance decimal.Decimal   `json:"balance"`
}

type ProfitAndLoss struct {
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	Discounts       decimal.Decimal `json:"discounts"`
	NetRevenue      decimal.Decimal `json:"net_revenue"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Expenses        []AccountLine   `json:"expenses"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}

type BalanceSheet struct {
	Assets           []AccountLine   `json:"assets"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	Liabilities      []AccountLine   `json:"liabilities"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	Equity           []AccountLine   `json:"equity"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// LedgerLine is one side of a journal entry, unwound for display.
type LedgerLine struct {
	EntryID     uint            `json:"entry_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Account     string          `json:"account"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type JournalService interface {
	PostEntry(tx *gorm.DB, in EntryInput) error
	AccountBalance(ctx context.Context, names []string, start, end *time.Time) (decimal.Decimal, error)
	ProfitAndLoss(ctx context.Context, start, end *time.Time) (*ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, end *time.Time) (*BalanceSheet, error)
	GeneralLedger(ctx context.Context, limit int) ([]LedgerLine, error)
	ChartOfAccounts(ctx context.Context) ([]model.Account, error)
	AccountsByType(ctx context.Context, accountType model.AccountType) ([]model.Account, error)
	Entries(ctx context.Context, limit int) ([]model.JournalEntry, error)
}

type journalService struct {
	accounts repository.AccountRepository
	journal  repository.JournalRepository
}

func NewJournalService(accounts repository.AccountRepository, journal repository.JournalRepository) JournalService {
	return &journalService{accounts: accounts, journal: journal}
}

// PostEntry appends one balanced entry inside the caller's transaction.
// Callers skip zero-amount lines (zero tax, zero discount) before calling.
func (s *journalService) PostEntry(tx *gorm.DB, in EntryInput) error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if in.DebitAccount == in.CreditAccount {
		return ErrSameAccount
	}
	debit, err := s.accounts.FindByNameTx(tx, in.DebitAccount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	credit, err := s.accounts.FindByNameTx(tx, in.CreditAccount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	return s.journal.CreateTx(tx, &model.JournalEntry{
		Date:            date,
		Description:     in.Description,
		DebitAccountID:  debit.ID,
		CreditAccountID: credit.ID,
		Amount:          in.Amount,
		ReferenceID:     in.ReferenceID,
		ReferenceType:   in.ReferenceType,
	})
}

// AccountBalance aggregates the named accounts as one figure. Contra accounts
// passed together with their parent net out through the debit/credit sums.
func (s *journalService) AccountBalance(ctx context.Context, names []string, start, end *time.Time) (decimal.Decimal, error) {
	accounts, err := s.accounts.FindByNames(ctx, names)
	if err != nil {
		return decimal.Zero, err
	}
	if len(accounts) != len(names) {
		return decimal.Zero, ErrAccountNotFound
	}
	ids := make([]uint, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return s.balance(ctx, ids, accounts[0].Type, start, end)
}

func (s *journalService) balance(ctx context.Context, ids []uint, accountType model.AccountType, start, end *time.Time) (decimal.Decimal, error) {
	debits, err := s.journal.SumDebits(ctx, ids, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	credits, err := s.journal.SumCredits(ctx, ids, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	switch accountType {
	case model.AccountAsset, model.AccountExpense:
		return debits.Sub(credits), nil
	default:
		return credits.Sub(debits), nil
	}
}

func (s *journalService) ProfitAndLoss(ctx context.Context, start, end *time.Time) (*ProfitAndLoss, error) {
	grossRevenue, err := s.AccountBalance(ctx, []string{AccSalesRevenue}, start, end)
	if err != nil {
		return nil, err
	}
	netRevenue, err := s.AccountBalance(ctx, []string{AccSalesRevenue, AccSalesDiscounts}, start, end)
	if err != nil {
		return nil, err
	}
	cogs, err := s.AccountBalance(ctx, []string{AccCOGS}, start, end)
	if err != nil {
		return nil, err
	}
	pl := &ProfitAndLoss{
		GrossRevenue:    grossRevenue,
		Discounts:       grossRevenue.Sub(netRevenue),
		NetRevenue:      netRevenue,
		CostOfGoodsSold: cogs,
		GrossProfit:     netRevenue.Sub(cogs),
	}
	expenseAccounts, err := s.accounts.ListByType(ctx, model.AccountExpense)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, a := range expenseAccounts {
		if a.Name == AccCOGS {
			continue
		}
		bal, err := s.balance(ctx, []uint{a.ID}, a.Type, start, end)
		if err != nil {
			return nil, err
		}
		// Credit-balance expense accounts are left off the statement.
		if !bal.IsPositive() {
			continue
		}
		pl.Expenses = append(pl.Expenses, AccountLine{ID: a.ID, Name: a.Name, Type: a.Type, Balance: bal})
		total = total.Add(bal)
	}
	pl.TotalExpenses = total
	pl.NetProfit = pl.GrossProfit.Sub(total)
	return pl, nil
}

// BalanceSheet reports balances as of a cutoff. The Retained Earnings line
// carries the current-period net profit instead of its ledger balance, so
// all undistributed profit shows as current-period.
func (s *journalService) BalanceSheet(ctx context.Context, end *time.Time) (*BalanceSheet, error) {
	pl, err := s.ProfitAndLoss(ctx, nil, end)
	if err != nil {
		return nil, err
	}
	bs := &BalanceSheet{}
	sections := []struct {
		accountType model.AccountType
		lines       *[]AccountLine
		total       *decimal.Decimal
	}{
		{model.AccountAsset, &bs.Assets, &bs.TotalAssets},
		{model.AccountLiability, &bs.Liabilities, &bs.TotalLiabilities},
		{model.AccountEquity, &bs.Equity, &bs.TotalEquity},
	}
	for _, sec := range sections {
		accounts, err := s.accounts.ListByType(ctx, sec.accountType)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			var bal decimal.Decimal
			if a.Type == model.AccountEquity && a.Name == AccRetainedEarning {
				bal = pl.NetProfit
			} else {
				bal, err = s.balance(ctx, []uint{a.ID}, a.Type, nil, end)
				if err != nil {
					return nil, err
				}
			}
			*sec.lines = append(*sec.lines, AccountLine{ID: a.ID, Name: a.Name, Type: a.Type, Balance: bal})
			*sec.total = sec.total.Add(bal)
		}
	}
	return bs, nil
}

func (s *journalService) GeneralLedger(ctx context.Context, limit int) ([]LedgerLine, error) {
	entries, err := s.journal.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]LedgerLine, 0, len(entries)*2)
	for _, e := range entries {
		lines = append(lines,
			LedgerLine{EntryID: e.ID, Date: e.Date, Description: e.Description, Account: e.DebitAccount.Name, Debit: e.Amount},
			LedgerLine{EntryID: e.ID, Date: e.Date, Description: e.Description, Account: e.CreditAccount.Name, Credit: e.Amount},
		)
	}
	return lines, nil
}

func (s *journalService) ChartOfAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accounts.List(ctx)
}

func (s *journalService) AccountsByType(ctx context.Context, accountType model.AccountType) ([]model.Account, error) {
	return s.accounts.ListByType(ctx, accountType)
}

func (s *journalService) Entries(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	return s.journal.List(ctx, limit)
}
