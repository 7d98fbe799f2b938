package services

import (
	"context"
	"testing"

	"github.com/scholarity/scholarity-api/database"
	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema and the
// role vocabulary seeded
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive across the
	// pool
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.NewSeeder(db).SeedRBAC())

	return db
}

func roleByName(t *testing.T, db *gorm.DB, name string) model.Role {
	t.Helper()

	var role model.Role
	require.NoError(t, db.Where("name = ?", name).First(&role).Error)
	return role
}

// createUser inserts an account with the given role
func createUser(t *testing.T, db *gorm.DB, email, roleName string, active bool) *model.User {
	t.Helper()

	role := roleByName(t, db, roleName)
	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		RoleID:       role.ID,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	user.Role = role
	return user
}

// createInstructor inserts an active TEACHER account with a profile
func createInstructor(t *testing.T, db *gorm.DB, email string) (*model.User, *model.Teacher) {
	t.Helper()

	user := createUser(t, db, email, rbac.RoleTeacher, true)
	teacher := &model.Teacher{
		UserID:     user.ID,
		Bio:        "Teaches things",
		Expertise:  "Testing",
		Experience: "5 years",
	}
	require.NoError(t, db.Create(teacher).Error)
	return user, teacher
}

// createTaxonomy inserts a category with one subject
func createTaxonomy(t *testing.T, db *gorm.DB, categoryName, subjectName string) (*model.AcademicCategory, *model.AcademicSubject) {
	t.Helper()

	category := &model.AcademicCategory{Name: categoryName}
	require.NoError(t, db.Create(category).Error)
	subject := &model.AcademicSubject{CategoryID: category.ID, Name: subjectName}
	require.NoError(t, db.Create(subject).Error)
	return category, subject
}

func testCtx() context.Context {
	return context.Background()
}
