package repository

import (
	"context"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"gorm.io/gorm"
)

type AccountRepository interface {
	FindByName(ctx context.Context, name string) (*model.Account, error)
	FindByNameTx(tx *gorm.DB, name string) (*model.Account, error)
	FindByNames(ctx context.Context, names []string) ([]model.Account, error)
	ListByType(ctx context.Context, accountType model.AccountType) ([]model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, accounts []model.Account) error
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) FindByName(ctx context.Context, name string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&a).Error
	return &a, err
}

// FindByNameTx resolves an account inside an open transaction so that journal
// postings see a consistent chart of accounts.
func (r *accountRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Account, error) {
	var a model.Account
	err := tx.Where("name = ?", name).First(&a).Error
	return &a, err
}

func (r *accountRepo) FindByNames(ctx context.Context, names []string) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) ListByType(ctx context.Context, accountType model.AccountType) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Where("type = ?", accountType).Order("name").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Order("type, name").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&n).Error
	return n, err
}

func (r *accountRepo) CreateBatch(ctx context.Context, accounts []model.Account) error {
	return r.db.WithContext(ctx).Create(&accounts).Error
}
