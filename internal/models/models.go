package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
)

type User struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:10;not null;default:user" json:"role"`
	Avatar   string `gorm:"size:255" json:"avatar"`
}

type Transaction struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	Username    string          `gorm:"index;size:50;not null" json:"username"`
	Type        string          `gorm:"size:10;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"type:date;index;not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
}

type FinancialGoal struct {
	ID              uint64          `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"size:100;not null" json:"title"`
	TargetAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"target_amount"`
	CollectedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"collected_amount"`
	Description     string          `gorm:"size:255" json:"description"`
}

// PercentComplete reports collected/target as a percentage, clamped to 0
// when the target is zero or negative so the result is always finite.
func (g FinancialGoal) PercentComplete() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct, _ := g.CollectedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

type LoginActivity struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	UserID   uint64    `gorm:"index;not null" json:"user_id"`
	Username string    `gorm:"size:50;not null" json:"username"`
	Role     string    `gorm:"size:10;not null" json:"role"`
	LoginAt  time.Time `gorm:"not null" json:"login_at"`
}

type AgreementSignature struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	UserID         uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	SignatureImage string    `gorm:"type:text" json:"signature_image"`
	SignedAt       time.Time `gorm:"not null" json:"signed_at"`
}
