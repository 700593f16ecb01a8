package auth

import (
	"testing"
	"time"

	"github.com/naufalaufa/zipal-app/configs"
	"github.com/naufalaufa/zipal-app/internal/models"
)

func configure(t *testing.T, accessTTL time.Duration) {
	t.Helper()
	configs.AppConfig.JWT.AccessSecret = "test-access-secret"
	configs.AppConfig.JWT.RefreshSecret = "test-refresh-secret"
	configs.AppConfig.JWT.AccessTTL = accessTTL
	configs.AppConfig.JWT.RefreshTTL = time.Hour
}

var testUser = models.User{ID: 7, Username: "alice", Role: models.RoleUser}

func TestIssueAndVerify(t *testing.T) {
	configure(t, time.Minute)

	pair, err := IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	claims, err := VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != models.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
}

func TestCrossTokenUseRejected(t *testing.T) {
	configure(t, time.Minute)

	pair, err := IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := VerifyRefresh(pair.AccessToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	configure(t, -time.Minute)

	pair, err := IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expired access token accepted")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	configure(t, time.Minute)

	if _, err := VerifyAccess("not-a-token"); err == nil {
		t.Fatal("garbage accepted as access token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	configure(t, time.Minute)
	pair, err := IssuePair(testUser)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	configs.AppConfig.JWT.AccessSecret = "rotated"
	if _, err := VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("token signed with old secret accepted")
	}
}
