package seed

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/naufalaufa/zipal-app/internal/logger"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedPassword = "password123"

// The two ledger members plus the investment identity. Role drives how the
// summary treats each account; the names themselves carry no meaning.
var seedUsers = []struct {
	Username string
	Role     string
}{
	{"naufalaufa", models.RoleUser},
	{"zihraangelina", models.RoleUser},
	{"zipaladmin", models.RoleAdmin},
}

// Run creates the fixed account set on first start and is a no-op afterwards.
func Run() {
	db := store.DB

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, u := range seedUsers {
			user := models.User{Username: u.Username, Password: hashed, Role: u.Role}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded accounts", zap.Int("count", len(seedUsers)), zap.String("password", seedPassword))
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Reseed wipes all transactions and goals and repopulates them with a small
// fixture set, inside a single transaction. Destructive maintenance only.
func Reseed() error {
	return store.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.FinancialGoal{}).Error; err != nil {
			return err
		}

		txs := []models.Transaction{
			{Username: "naufalaufa", Type: models.TxDeposit, Amount: decimal.NewFromInt(500000), Date: day("2025-01-05"), Description: "monthly saving"},
			{Username: "zihraangelina", Type: models.TxDeposit, Amount: decimal.NewFromInt(500000), Date: day("2025-01-05"), Description: "monthly saving"},
			{Username: "naufalaufa", Type: models.TxWithdraw, Amount: decimal.NewFromInt(150000), Date: day("2025-01-20"), Description: "groceries"},
			{Username: "zipaladmin", Type: models.TxWithdraw, Amount: decimal.NewFromInt(200000), Date: day("2025-02-01"), Description: "moved to mutual fund"},
		}
		for i := range txs {
			if err := tx.Create(&txs[i]).Error; err != nil {
				return err
			}
		}

		goals := []models.FinancialGoal{
			{Title: "Emergency fund", TargetAmount: decimal.NewFromInt(10000000), CollectedAmount: decimal.NewFromInt(650000), Description: "6 months of expenses"},
			{Title: "Holiday", TargetAmount: decimal.NewFromInt(3000000), CollectedAmount: decimal.Zero, Description: ""},
		}
		for i := range goals {
			if err := tx.Create(&goals[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
