package infra

import (
	"context"
	"fmt"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, migrates the schema and
// seeds the default chart of accounts on a fresh database.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Account{},
		&model.JournalEntry{},
		&model.Category{},
		&model.Supplier{},
		&model.Customer{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Expense{},
		&model.User{},
		&model.SyncTracking{},
		&model.SyncHistory{},
		&model.SyncConflict{},
		&model.SyncConfig{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := SeedChartOfAccounts(db); err != nil {
		return nil, fmt.Errorf("seed accounts: %w", err)
	}
	return db, nil
}

// SeedChartOfAccounts inserts the default ledger accounts once. An already
// populated chart is left untouched.
func SeedChartOfAccounts(db *gorm.DB) error {
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return repo.CreateBatch(ctx, []model.Account{
		{Name: "Cash", Type: model.AccountAsset},
		{Name: "Bank", Type: model.AccountAsset},
		{Name: "Accounts Receivable", Type: model.AccountAsset},
		{Name: "Inventory", Type: model.AccountAsset},
		{Name: "Accounts Payable", Type: model.AccountLiability},
		{Name: "Sales Tax Payable", Type: model.AccountLiability},
		{Name: "Owner's Equity", Type: model.AccountEquity},
		{Name: "Retained Earnings", Type: model.AccountEquity},
		{Name: "Sales Revenue", Type: model.AccountRevenue},
		{Name: "Sales Discounts", Type: model.AccountRevenue},
		{Name: "Cost of Goods Sold", Type: model.AccountExpense},
		{Name: "Rent", Type: model.AccountExpense},
		{Name: "Utilities", Type: model.AccountExpense},
		{Name: "Salaries", Type: model.AccountExpense},
		{Name: "Office Supplies", Type: model.AccountExpense},
		{Name: "Miscellaneous Expense", Type: model.AccountExpense},
	})
}
