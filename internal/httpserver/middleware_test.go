package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/model"
	"github.com/Rsgr172026/KanbanMate/internal/util"
)

const testSecret = "test-secret"

func guardedEngine(users *memUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(users, testSecret, zap.NewNop()))
	r.GET("/whoami", func(c *gin.Context) {
		u := c.MustGet("user").(*model.User)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "hash": u.PasswordHash})
	})
	return r
}

func seedUser(t *testing.T, users *memUserStore) *model.User {
	t.Helper()
	u := &model.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@x.com",
		PasswordHash: "some-hash",
		Role:         model.RoleMember,
		CreatedAt:    time.Now(),
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestGuardRejectsMissingToken(t *testing.T) {
	r := guardedEngine(newMemUserStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGuardRejectsInvalidToken(t *testing.T) {
	users := newMemUserStore()
	seedUser(t, users)
	r := guardedEngine(users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: "not-a-jwt"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGuardRejectsTokenSignedWithOtherSecret(t *testing.T) {
	users := newMemUserStore()
	u := seedUser(t, users)
	r := guardedEngine(users)

	forged, err := util.GenerateJWT(u.ID, "attacker-secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: forged})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGuardFailsClosedForDeletedUser(t *testing.T) {
	users := newMemUserStore()
	u := seedUser(t, users)
	r := guardedEngine(users)

	token, err := util.GenerateJWT(u.ID, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	users.remove(u.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a token without a user", w.Code)
	}
}

func TestGuardAttachesIdentityWithoutHash(t *testing.T) {
	users := newMemUserStore()
	u := seedUser(t, users)
	r := guardedEngine(users)

	token, err := util.GenerateJWT(u.ID, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"id":"user-1"`) {
		t.Errorf("body %q does not carry the resolved identity", body)
	}
	if strings.Contains(body, "some-hash") {
		t.Error("password hash leaked past the guard")
	}
}
