package store

import (
	"github.com/naufalaufa/zipal-app/internal/models"
)

// recencyOrder is the canonical "most recent first" ordering for ledger rows.
// Same-day entries fall back to id so the order stays stable.
const recencyOrder = "date DESC, id DESC"

func ListTransactions() ([]models.Transaction, error) {
	var txs []models.Transaction
	err := DB.Order(recencyOrder).Find(&txs).Error
	return txs, err
}

// LastTransaction fetches the most recent ledger entry for a user and type.
// A miss comes back as gorm.ErrRecordNotFound.
func LastTransaction(username, txType string) (models.Transaction, error) {
	var tx models.Transaction
	err := DB.
		Where("username = ? AND type = ?", username, txType).
		Order(recencyOrder).
		First(&tx).Error
	return tx, err
}

// InvestmentWithdrawals lists withdrawals made under the investment identity,
// i.e. the admin-role user, most recent first.
func InvestmentWithdrawals() ([]models.Transaction, error) {
	var admin models.User
	if err := DB.Where("role = ?", models.RoleAdmin).First(&admin).Error; err != nil {
		return nil, err
	}
	var txs []models.Transaction
	err := DB.
		Where("username = ? AND type = ?", admin.Username, models.TxWithdraw).
		Order(recencyOrder).
		Find(&txs).Error
	return txs, err
}
