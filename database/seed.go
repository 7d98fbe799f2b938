package database

import (
	"fmt"
	"log"
	"os"

	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/rbac"
	"github.com/scholarity/scholarity-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedRBAC(); err != nil {
		return fmt.Errorf("failed to seed roles and permissions: %w", err)
	}

	if err := s.SeedSuperAdmin(); err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	if err := s.SeedAcademicTaxonomy(); err != nil {
		return fmt.Errorf("failed to seed academic taxonomy: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedRBAC creates the fixed role and permission vocabulary. Idempotent:
// existing rows are reused, grants are re-linked on every run so a new
// permission added to the vocabulary reaches existing roles.
func (s *Seeder) SeedRBAC() error {
	permByName := make(map[string]*model.Permission, len(rbac.AllPermissions))
	for _, name := range rbac.AllPermissions {
		perm := &model.Permission{Name: name}
		if err := s.db.Where("name = ?", name).FirstOrCreate(perm).Error; err != nil {
			return err
		}
		permByName[name] = perm
	}

	for _, roleName := range rbac.AllRoles {
		role := &model.Role{Name: roleName}
		if err := s.db.Where("name = ?", roleName).FirstOrCreate(role).Error; err != nil {
			return err
		}

		grants := rbac.DefaultGrants[roleName]
		perms := make([]*model.Permission, 0, len(grants))
		for _, g := range grants {
			perms = append(perms, permByName[g])
		}

		if err := s.db.Model(role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d roles and %d permissions\n", len(rbac.AllRoles), len(rbac.AllPermissions))
	return nil
}

// SeedSuperAdmin creates the bootstrap super admin user
func (s *Seeder) SeedSuperAdmin() error {
	var superAdminRole model.Role
	if err := s.db.Where("name = ?", rbac.RoleSuperAdmin).First(&superAdminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("role_id = ?", superAdminRole.ID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Super admin already exists, skipping...")
		return nil
	}

	// Get bootstrap credentials from environment variables
	adminEmail := os.Getenv("SUPER_ADMIN_EMAIL")
	adminPassword := os.Getenv("SUPER_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD environment variables not set, skipping super admin creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		RoleID:       superAdminRole.ID,
		IsActive:     true,
		TokenVersion: 0,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created super admin user: %s\n", admin.Email)
	return nil
}

// SeedAcademicTaxonomy creates starter categories and subjects
func (s *Seeder) SeedAcademicTaxonomy() error {
	var count int64
	if err := s.db.Model(&model.AcademicCategory{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Academic categories already exist, skipping...")
		return nil
	}

	categories := []model.AcademicCategory{
		{
			Name: "Computer Science",
			Subjects: []model.AcademicSubject{
				{Name: "Data Structures and Algorithms"},
				{Name: "Operating Systems"},
				{Name: "Database Systems"},
				{Name: "Web Development"},
			},
		},
		{
			Name: "Mathematics",
			Subjects: []model.AcademicSubject{
				{Name: "Linear Algebra"},
				{Name: "Calculus"},
				{Name: "Probability and Statistics"},
			},
		},
		{
			Name: "Business",
			Subjects: []model.AcademicSubject{
				{Name: "Financial Accounting"},
				{Name: "Marketing Fundamentals"},
			},
		},
	}

	for i := range categories {
		if err := s.db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d academic categories\n", len(categories))
	return nil
}
