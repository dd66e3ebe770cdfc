package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/crosswatch/crosswatch/internal/models"
	"github.com/crosswatch/crosswatch/internal/webauth"
)

func scopeProtectedEngine(store *webauth.Store) *gin.Engine {
	engine := gin.New()
	engine.GET("/guarded", RequireScope(store, models.ScopeRead), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	return engine
}

func getGuarded(t *testing.T, engine *gin.Engine, username, password string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	store := webauth.NewStore(db)
	ctx := context.Background()

	if _, err := store.Create(ctx, "reader", "hunter2", models.ScopeRead); err != nil {
		t.Fatalf("Failed to create web user: %v", err)
	}

	engine := scopeProtectedEngine(store)

	if code := getGuarded(t, engine, "", ""); code != http.StatusUnauthorized {
		t.Errorf("Missing credentials should 401, got %d", code)
	}
	if code := getGuarded(t, engine, "reader", "wrong"); code != http.StatusUnauthorized {
		t.Errorf("Wrong password should 401, got %d", code)
	}
	if code := getGuarded(t, engine, "nobody", "hunter2"); code != http.StatusUnauthorized {
		t.Errorf("Unknown user should 401, got %d", code)
	}
	if code := getGuarded(t, engine, "reader", "hunter2"); code != http.StatusOK {
		t.Errorf("Valid credentials should pass, got %d", code)
	}
}

func TestRequireScopeStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A database without the web user table makes every lookup fail with
	// a driver error, which must not be reported as bad credentials.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	store := webauth.NewStore(db)
	engine := scopeProtectedEngine(store)

	if code := getGuarded(t, engine, "reader", "hunter2"); code != http.StatusInternalServerError {
		t.Errorf("Store failure should 500, got %d", code)
	}
}

func TestRequireScopeInsufficient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	store := webauth.NewStore(db)
	ctx := context.Background()

	if _, err := store.Create(ctx, "reader", "hunter2", models.ScopeRead); err != nil {
		t.Fatalf("Failed to create web user: %v", err)
	}

	engine := gin.New()
	engine.GET("/guarded", RequireScope(store, models.ScopeManage), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if code := getGuarded(t, engine, "reader", "hunter2"); code != http.StatusForbidden {
		t.Errorf("Insufficient scope should 403, got %d", code)
	}
}
