// Command seed populates the database with a demo account and a fixed catalog
// of sample todos. It is an out-of-band administrative tool, not part of the
// request-serving path; run it once against a fresh database.
package main

import (
	"context"
	"log"

	"todoweb/internal/config"
	"todoweb/internal/database"
	"todoweb/internal/domain"
	"todoweb/internal/repository"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	demoEmail    = "test@example.com"
	demoName     = "Test User"
	demoPassword = "password123"
)

func main() {
	cfg := config.Load()

	dbService := database.New(cfg)
	defer dbService.Close()

	gormDB := dbService.GetDB()
	if err := gormDB.AutoMigrate(&domain.User{}, &domain.Todo{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// One transaction for the whole routine: any failure rolls everything
	// back instead of leaving a half-seeded account behind.
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		users := repository.NewGormUserRepository(tx)
		demoUser := &domain.User{
			Email:    demoEmail,
			Name:     demoName,
			Password: string(hashed),
		}
		created, err := users.EnsureByEmail(context.Background(), demoUser)
		if err != nil {
			return err
		}
		if created {
			log.Printf("Created demo user %s", demoEmail)
		} else {
			log.Printf("Demo user %s already exists", demoEmail)
		}

		todos := sampleTodos(demoUser.ID)
		return tx.Create(&todos).Error
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeded successfully!")
}

func sampleTodos(ownerID uint) []domain.Todo {
	catalog := []struct {
		title       string
		description string
	}{
		{"Complete project documentation", "Write comprehensive docs for the project"},
		{"Review pull requests", "Review and approve pending PRs"},
		{"Update dependencies", "Update all npm packages to latest versions"},
		{"Write unit tests", "Add tests for authentication module"},
		{"Fix bug in todo form", "Form validation is not working correctly"},
		{"Optimize database queries", "Add proper indexes to improve performance"},
		{"Setup CI/CD pipeline", "Configure GitHub Actions for automated testing"},
		{"Create user guide", "Write user guide for the application"},
		{"Setup monitoring", "Add application monitoring and alerting"},
		{"Database migration", "Migrate from SQLite to PostgreSQL"},
		{"Refactor authentication code", "Clean up auth module and add error handling"},
		{"Add dark mode support", "Implement dark mode toggle in UI"},
		{"Setup email notifications", "Configure email service for notifications"},
		{"Create API documentation", "Document all API endpoints with examples"},
		{"Add file upload feature", "Allow users to attach files to todos"},
		{"Implement caching", "Add Redis caching layer for better performance"},
		{"Security audit", "Conduct security review of the application"},
		{"Performance testing", "Run load tests and optimize bottlenecks"},
		{"User feedback session", "Gather feedback from beta users"},
		{"Deploy to production", "Deploy application to production environment"},
		{"Backup strategy", "Setup automated backups for the database"},
		{"Analytics integration", "Add Google Analytics to track user behavior"},
	}

	todos := make([]domain.Todo, 0, len(catalog))
	for _, item := range catalog {
		description := item.description
		todos = append(todos, domain.Todo{
			Title:       item.title,
			Description: &description,
			UserID:      ownerID,
		})
	}
	return todos
}
