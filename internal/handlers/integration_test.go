//go:build integration

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/naufalaufa/zipal-app/configs"
	"github.com/naufalaufa/zipal-app/internal/auth"
	"github.com/naufalaufa/zipal-app/internal/logger"
	appmw "github.com/naufalaufa/zipal-app/internal/middleware"
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/naufalaufa/zipal-app/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Integration tests need a disposable MySQL schema. Point ZIPAL_TEST_DSN at
// one and run:
//
//	go test -tags=integration ./internal/handlers
//
// Every table is wiped on setup.

func setupDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("ZIPAL_TEST_DSN")
	if dsn == "" {
		t.Skip("ZIPAL_TEST_DSN not set, skipping integration test")
	}

	logger.Init()
	configs.AppConfig.JWT.AccessSecret = "it-access"
	configs.AppConfig.JWT.RefreshSecret = "it-refresh"
	configs.AppConfig.JWT.AccessTTL = time.Minute
	configs.AppConfig.JWT.RefreshTTL = time.Hour

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store.DB = db
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.FinancialGoal{},
		&models.LoginActivity{},
		&models.AgreementSignature{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []any{
		&models.Transaction{},
		&models.FinancialGoal{},
		&models.LoginActivity{},
		&models.AgreementSignature{},
		&models.User{},
	} {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			t.Fatalf("clean: %v", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	for _, u := range []models.User{
		{Username: "alice", Password: string(hash), Role: models.RoleUser},
		{Username: "bob", Password: string(hash), Role: models.RoleUser},
		{Username: "fundadmin", Password: string(hash), Role: models.RoleAdmin},
	} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}
}

func userByName(t *testing.T, username string) models.User {
	t.Helper()
	var u models.User
	if err := store.DB.Where("username = ?", username).First(&u).Error; err != nil {
		t.Fatalf("fetch user %s: %v", username, err)
	}
	return u
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func insertTx(t *testing.T, username, typ string, amount int64, date string) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		Username: username,
		Type:     typ,
		Amount:   decimal.NewFromInt(amount),
		Date:     mustDay(t, date),
	}
	if err := store.DB.Create(&tx).Error; err != nil {
		t.Fatalf("insert tx: %v", err)
	}
	return tx
}

func TestHistoryRecencyOrder(t *testing.T) {
	setupDB(t)

	a1 := insertTx(t, "alice", models.TxDeposit, 100, "2025-03-01")
	a2 := insertTx(t, "alice", models.TxDeposit, 25, "2025-03-01") // same day, later id
	b1 := insertTx(t, "bob", models.TxDeposit, 50, "2025-02-28")
	a3 := insertTx(t, "alice", models.TxWithdraw, 10, "2025-03-02")

	txs, err := store.ListTransactions()
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("got %d rows, want 4", len(txs))
	}

	wantIDs := []uint64{a3.ID, a2.ID, a1.ID, b1.ID}
	for i, want := range wantIDs {
		if txs[i].ID != want {
			t.Fatalf("position %d: id = %d, want %d (order %+v)", i, txs[i].ID, want, txs)
		}
	}

	// pairwise: later date first; equal dates fall back to higher id
	for i := 0; i < len(txs)-1; i++ {
		di, dj := txs[i].Date.Format("2006-01-02"), txs[i+1].Date.Format("2006-01-02")
		if di < dj {
			t.Fatalf("row %d (%s) sorted after %s", i, di, dj)
		}
		if di == dj && txs[i].ID < txs[i+1].ID {
			t.Fatalf("same-day rows %d/%d not ordered by id desc", i, i+1)
		}
	}
}

func TestCancelLastRemovesSingleMostRecent(t *testing.T) {
	setupDB(t)

	d1 := insertTx(t, "alice", models.TxDeposit, 100, "2025-03-01")
	d2 := insertTx(t, "alice", models.TxDeposit, 200, "2025-03-02")
	d3 := insertTx(t, "alice", models.TxDeposit, 300, "2025-03-02") // same day as d2, higher id
	w1 := insertTx(t, "alice", models.TxWithdraw, 40, "2025-03-05")
	b1 := insertTx(t, "bob", models.TxDeposit, 50, "2025-03-03")

	r := chi.NewRouter()
	r.Delete("/transaction/cancel-last/{username}", CancelLastTransactionHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/transaction/cancel-last/alice?type=deposit", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var remaining []models.Transaction
	if err := store.DB.Find(&remaining).Error; err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	left := make(map[uint64]bool, len(remaining))
	for _, tx := range remaining {
		left[tx.ID] = true
	}
	if left[d3.ID] {
		t.Fatalf("highest-(date,id) deposit %d still present", d3.ID)
	}
	for _, keep := range []models.Transaction{d1, d2, w1, b1} {
		if !left[keep.ID] {
			t.Fatalf("row %d removed alongside the cancelled one", keep.ID)
		}
	}
}

func TestUpdateUnchangedTransactionIsNotAMiss(t *testing.T) {
	setupDB(t)

	tx := insertTx(t, "alice", models.TxDeposit, 100, "2025-03-01")

	r := chi.NewRouter()
	r.Put("/transaction/{id}", UpdateTransactionHandler)

	// resubmitting identical values changes no rows but must still succeed
	body := `{"amount":100,"description":""}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/transaction/"+strconv.FormatUint(tx.ID, 10), strings.NewReader(body))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unchanged update: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/transaction/999999", strings.NewReader(body))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing id: status = %d, want 404", rec.Code)
	}
}

func TestUpdateUnchangedGoalIsNotAMiss(t *testing.T) {
	setupDB(t)

	goal := models.FinancialGoal{
		Title:           "Emergency fund",
		TargetAmount:    decimal.NewFromInt(1000),
		CollectedAmount: decimal.NewFromInt(250),
	}
	if err := store.DB.Create(&goal).Error; err != nil {
		t.Fatalf("create goal: %v", err)
	}

	r := chi.NewRouter()
	r.Put("/goals/{id}", UpdateGoalHandler)

	body := `{"title":"Emergency fund","target_amount":1000,"collected_amount":250,"description":""}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/goals/"+strconv.FormatUint(goal.ID, 10), strings.NewReader(body))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unchanged update: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestInvestmentWriteRequiresAdminRole(t *testing.T) {
	setupDB(t)

	member := userByName(t, "alice")
	admin := userByName(t, "fundadmin")

	h := appmw.Authenticated(http.HandlerFunc(CreateTransactionHandler))
	post := func(u models.User) *httptest.ResponseRecorder {
		pair, err := auth.IssuePair(u)
		if err != nil {
			t.Fatalf("IssuePair: %v", err)
		}
		body := `{"username":"fundadmin","type":"withdraw","amount":40,"description":"to fund"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transaction", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post(member)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member writing investment row: status = %d, want 403 (body %s)", rec.Code, rec.Body.String())
	}
	var count int64
	if err := store.DB.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("forbidden write still stored %d rows", count)
	}

	rec = post(admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin writing investment row: status = %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.Transaction `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Username != "fundadmin" || resp.Data.Type != models.TxWithdraw {
		t.Fatalf("unexpected stored row: %+v", resp.Data)
	}
}
