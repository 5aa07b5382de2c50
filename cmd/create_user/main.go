package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"sikeu/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "username for the new user")
	password := flag.String("password", "", "plaintext password (min 6 chars)")
	roleName := flag.String("role", models.RoleOperator, "role name (administrator or operator)")
	schoolID := flag.Uint("school-id", 0, "school to bind the user to (required for operators)")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Println("usage: go run ./cmd/create_user --username u --password p [--role operator] [--school-id 1]")
		os.Exit(2)
	}
	if len(*password) < 6 {
		log.Fatal("password too short (min 6)")
	}
	if *roleName != models.RoleAdministrator && *roleName != models.RoleOperator {
		log.Fatalf("unknown role %q", *roleName)
	}
	if *roleName == models.RoleOperator && *schoolID == 0 {
		log.Fatal("--school-id is required for operators")
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var role models.Role
	if err := db.Where("name = ?", *roleName).First(&role).Error; err != nil {
		role = models.Role{Name: *roleName}
		db.Create(&role)
	}

	var existing models.User
	if err := db.Where("username = ?", *username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", *username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{Username: *username, HashedPassword: hpw, RoleID: &rid}
	if *schoolID != 0 {
		var school models.School
		if err := db.First(&school, *schoolID).Error; err != nil {
			log.Fatalf("school %d not found: %v", *schoolID, err)
		}
		user.SchoolID = &school.ID
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created %s %s id=%d\n", *roleName, *username, user.ID)
}
