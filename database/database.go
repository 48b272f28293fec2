package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	config "github.com/jadesdev/limo-drive/configs"
	"github.com/jadesdev/limo-drive/models"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Fleet{},
		&models.Driver{},
		&models.Customer{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to run migrations: %v", err)
	}

	fmt.Println("✅ Migrations completed successfully")
}

// SeedAdmin creates the initial dashboard login when none exists.
func SeedAdmin() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	email := config.ConfigOr("ADMIN_LOGIN_EMAIL", "admin@example.com")
	password := config.Config("ADMIN_LOGIN_PASSWORD")
	if password == "" {
		log.Println("⚠️ ADMIN_LOGIN_PASSWORD not set, skipping admin seed.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("🔥 Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		FullName: "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("🔥 Failed to seed admin user: %v", err)
		return
	}
	log.Printf("✅ Seeded admin user %s", email)
}

// SeedFleets loads a starter vehicle catalog on an empty database.
func SeedFleets() {
	var count int64
	DB.Model(&models.Fleet{}).Count(&count)
	if count > 0 {
		return
	}

	sedanDesc := "Executive sedan for up to 3 passengers."
	suvDesc := "Full-size luxury SUV with room for the whole party."
	sprinterDesc := "Mercedes Sprinter for group transfers and events."

	fleets := []models.Fleet{
		{
			Name: "Executive Sedan", Slug: "executive-sedan", Description: &sedanDesc,
			Seats: 3, Bags: 3,
			BaseFee: 60, RatePerMile: 3.50, RatePerHour: 85, MinimumHours: 2,
			IsActive: true, SortOrder: 1,
		},
		{
			Name: "Luxury SUV", Slug: "luxury-suv", Description: &suvDesc,
			Seats: 6, Bags: 6,
			BaseFee: 80, RatePerMile: 4.50, RatePerHour: 110, MinimumHours: 2,
			IsActive: true, SortOrder: 2,
		},
		{
			Name: "Sprinter Van", Slug: "sprinter-van", Description: &sprinterDesc,
			Seats: 12, Bags: 14,
			BaseFee: 120, RatePerMile: 6.00, RatePerHour: 150, MinimumHours: 3,
			IsActive: true, SortOrder: 3,
		},
	}
	if err := DB.Create(&fleets).Error; err != nil {
		log.Printf("🔥 Failed to seed fleet catalog: %v", err)
		return
	}
	log.Printf("✅ Seeded %d fleet vehicles", len(fleets))
}
