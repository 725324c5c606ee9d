package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/veloxevents/doorman/internal/config"
	"github.com/veloxevents/doorman/internal/database"
	"github.com/veloxevents/doorman/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.UserEvent{},
		&models.Guest{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Seed default admin user
	adminEmail := os.Getenv("DOORMAN_DEFAULT_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}
	adminPassword := os.Getenv("DOORMAN_DEFAULT_ADMIN_PASSWORD")

	admin := models.User{
		Email:   adminEmail,
		Name:    "Administrator",
		Role:    models.RoleAdmin,
		Enabled: true,
	}

	if adminPassword != "" {
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Printf("Failed to hash default admin password: %v", err)
		}
	} else {
		// Placeholder hash: not loginable until reset-password is used
		admin.PasswordHash = "$2a$10$example_hashed_password"
	}

	var existing models.User
	if err := db.Where("email = ?", admin.Email).First(&existing).Error; err != nil {
		if result := db.Create(&admin); result.Error != nil {
			log.Printf("Failed to seed admin user: %v", result.Error)
		} else {
			fmt.Printf("✓ Created default admin: %s\n", admin.Email)
		}
	} else {
		fmt.Printf("  Admin already exists: %s\n", existing.Email)
	}

	// Seed a demo event with a small guest list
	event := models.Event{
		Name:        "Sample Wedding",
		Date:        time.Now().AddDate(0, 1, 0),
		Description: "Demo event created by the seeder",
		Status:      models.EventActive,
	}

	result := db.Where("name = ?", event.Name).FirstOrCreate(&event)
	if result.Error != nil {
		log.Printf("Failed to seed event: %v", result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("✓ Created event: %s\n", event.Name)
	} else {
		fmt.Printf("  Event already exists: %s\n", event.Name)
	}

	guests := []models.Guest{
		{FullName: "Ana Souza", Category: "Family", TableNumber: "1", EventID: event.ID},
		{FullName: "Bruno Lima", Category: "Friends", TableNumber: "2", EventID: event.ID},
		{FullName: "Carla Mendes", Category: "Work", TableNumber: "3", EventID: event.ID, IsPaying: true},
	}

	for _, guest := range guests {
		result := db.Where("event_id = ? AND full_name = ?", guest.EventID, guest.FullName).FirstOrCreate(&guest)
		if result.Error != nil {
			log.Printf("Failed to seed guest %s: %v", guest.FullName, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created guest: %s\n", guest.FullName)
		} else {
			fmt.Printf("  Guest already exists: %s\n", guest.FullName)
		}
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
