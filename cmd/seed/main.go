package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/ratehub-backend/config"
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/internal/db"
	"github.com/ikkim/ratehub-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports users and stores from an XLSX workbook with two sheets:
//
//	Users:  name | email | password | address | role
//	Stores: name | email | address | owner_email
//
// Stores are linked to already-imported owners by email.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	userCount, err := importUsers(f, userRepo)
	if err != nil {
		log.Fatal("Failed to import users:", err)
	}
	fmt.Printf("Users imported: %d\n", userCount)

	storeCount, err := importStores(f, userRepo, storeRepo)
	if err != nil {
		log.Fatal("Failed to import stores:", err)
	}
	fmt.Printf("Stores imported: %d\n", storeCount)

	fmt.Println("Import completed successfully!")
}

func importUsers(f *excelize.File, userRepo repository.UserRepository) (int, error) {
	rows, err := f.GetRows("Users")
	if err != nil {
		return 0, fmt.Errorf("failed to read Users sheet: %w", err)
	}

	imported := 0
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		email := strings.ToLower(strings.TrimSpace(row[1]))
		password := strings.TrimSpace(row[2])
		address := ""
		if len(row) > 3 {
			address = strings.TrimSpace(row[3])
		}
		role := model.RoleUser
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			role = model.UserRole(strings.TrimSpace(row[4]))
		}

		if name == "" || email == "" || password == "" || !model.ValidRole(role) {
			skipped++
			continue
		}

		// Re-running the import must not duplicate or overwrite accounts.
		if _, err := userRepo.FindByEmail(email); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return imported, err
		}

		hashedPassword, err := util.HashPassword(password)
		if err != nil {
			return imported, err
		}

		user := &model.User{
			Name:         name,
			Email:        email,
			PasswordHash: hashedPassword,
			Address:      address,
			Role:         role,
			IsActive:     true,
		}
		if err := userRepo.Create(user); err != nil {
			return imported, err
		}
		imported++
	}

	if skipped > 0 {
		fmt.Printf("Users skipped (invalid or already present): %d\n", skipped)
	}
	return imported, nil
}

func importStores(f *excelize.File, userRepo repository.UserRepository, storeRepo repository.StoreRepository) (int, error) {
	rows, err := f.GetRows("Stores")
	if err != nil {
		return 0, fmt.Errorf("failed to read Stores sheet: %w", err)
	}

	imported := 0
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 4 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		email := strings.ToLower(strings.TrimSpace(row[1]))
		address := strings.TrimSpace(row[2])
		ownerEmail := strings.ToLower(strings.TrimSpace(row[3]))

		if name == "" || email == "" || ownerEmail == "" {
			skipped++
			continue
		}

		owner, err := userRepo.FindByEmail(ownerEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fmt.Printf("Row %d: owner %s not found, skipping\n", i+1, ownerEmail)
				skipped++
				continue
			}
			return imported, err
		}
		if owner.Role != model.RoleStoreOwner {
			fmt.Printf("Row %d: %s is not a store owner, skipping\n", i+1, ownerEmail)
			skipped++
			continue
		}

		if _, err := storeRepo.FindByEmail(email); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return imported, err
		}

		// One active store per owner also holds for seed data.
		if _, err := storeRepo.FindActiveByOwner(owner.ID); err == nil {
			fmt.Printf("Row %d: owner %s already has an active store, skipping\n", i+1, ownerEmail)
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return imported, err
		}

		store := &model.Store{
			Name:     name,
			Email:    email,
			Address:  address,
			OwnerID:  owner.ID,
			IsActive: true,
		}
		if err := storeRepo.Create(store); err != nil {
			return imported, err
		}
		imported++
	}

	if skipped > 0 {
		fmt.Printf("Stores skipped (invalid or already present): %d\n", skipped)
	}
	return imported, nil
}
