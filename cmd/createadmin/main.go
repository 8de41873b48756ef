// Command createadmin creates an admin account directly in the database.
// Intended for initial deployment when the bootstrap endpoint is not used.
//
//	createadmin -email admin@example.com -password Secret123 -department ops
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/domain"
	"github.com/spec-kit/delivery-service/internal/persistence"
	"github.com/spec-kit/delivery-service/internal/repository"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (required)")
	firstName := flag.String("first-name", getenvDefault("ADMIN_FIRSTNAME", "Admin"), "first name")
	lastName := flag.String("last-name", getenvDefault("ADMIN_LASTNAME", "User"), "last name")
	phone := flag.String("phone", getenvDefault("ADMIN_PHONE", "0000000000"), "phone number")
	department := flag.String("department", getenvDefault("ADMIN_DEPARTMENT", "operations"), "department")
	permissions := flag.String("permissions", getenvDefault("ADMIN_PERMISSIONS", "view"), "comma-separated permission list")
	mongoURI := flag.String("mongo-uri", "", "MongoDB URI (defaults to MONGO_URI)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: email and password are required. Provide via flags or env vars.")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *mongoURI != "" {
		cfg.Mongo.URI = *mongoURI
	}

	if !auth.ValidatePasswordPolicy(*password) {
		fmt.Fprintln(os.Stderr, "Error: password must be 8 to 72 characters and include both letters and numbers.")
		os.Exit(1)
	}

	logger := zap.NewNop()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		log.Fatalf("failed to connect mongodb: %v", err)
	}
	defer mongo.Close(context.Background())

	users := repository.NewUserRepository(mongo.Database)

	hash, err := auth.HashPassword(*password, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	permList := splitPermissions(*permissions)
	admin := &domain.User{
		FirstName:    *firstName,
		LastName:     *lastName,
		Email:        *email,
		PasswordHash: hash,
		Phone:        *phone,
		Role:         domain.RoleAdmin,
		Department:   *department,
		Permissions:  permList,
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Fprintln(os.Stderr, "A user with that email already exists. Aborting.")
			os.Exit(1)
		}
		log.Fatalf("failed to create admin: %v", err)
	}

	out, _ := json.MarshalIndent(map[string]any{
		"id":          admin.ID,
		"firstName":   admin.FirstName,
		"lastName":    admin.LastName,
		"email":       admin.Email,
		"phone":       admin.Phone,
		"role":        admin.Role,
		"department":  admin.Department,
		"permissions": admin.Permissions,
		"createdAt":   admin.CreatedAt,
	}, "", "  ")
	fmt.Println("Admin user created successfully:")
	fmt.Println(string(out))
}

func splitPermissions(raw string) []string {
	var perms []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			perms = append(perms, trimmed)
		}
	}
	if len(perms) == 0 {
		perms = []string{"view"}
	}
	return perms
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
