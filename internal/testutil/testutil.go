package testutil

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userportal/internal/db"
	"userportal/internal/model"
)

// OpenTestDB opens a migrated in-memory SQLite database private to the test.
// The connection is closed via t.Cleanup.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.Open(context.Background(), "sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// a single connection keeps the shared in-memory database alive and
	// serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gormDB
}

// CreateUser inserts a record with a bcrypt hash of password at minimum cost.
func CreateUser(t *testing.T, gormDB *gorm.DB, name, password, email string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{Name: name, Password: string(hash), Email: email, Role: role}
	if err := gormDB.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}
