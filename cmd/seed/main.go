package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sellio/sellio-backend/config"
	"github.com/sellio/sellio-backend/internal/app/model"
	"github.com/sellio/sellio-backend/internal/app/repository"
	"github.com/sellio/sellio-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Imports a product catalog from an XLSX workbook. Expected columns:
// Seller Email | Category | Name | Description | Price | Cost Price | Stock | Featured
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

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(db.GetDB(), filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d (skipped %d rows)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("sheet %s has no data rows", sheetName)
	}

	sellers := map[string]uint{}
	categories := map[string]uint{}

	var products []model.Product
	skipped := 0
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) < 5 {
			fmt.Printf("Row %d: too few columns, skipping\n", rowNum)
			skipped++
			continue
		}

		sellerEmail := strings.TrimSpace(cell(row, 0))
		categoryName := strings.TrimSpace(cell(row, 1))
		name := strings.TrimSpace(cell(row, 2))
		if sellerEmail == "" || name == "" {
			fmt.Printf("Row %d: missing seller email or product name, skipping\n", rowNum)
			skipped++
			continue
		}

		sellerID, err := resolveSeller(gdb, sellers, sellerEmail)
		if err != nil {
			fmt.Printf("Row %d: %v, skipping\n", rowNum, err)
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(cell(row, 4)), 64)
		if err != nil || price < 0 {
			fmt.Printf("Row %d: invalid price %q, skipping\n", rowNum, cell(row, 4))
			skipped++
			continue
		}

		product := model.Product{
			SellerID:    sellerID,
			Name:        name,
			Description: strings.TrimSpace(cell(row, 3)),
			Price:       price,
		}

		if categoryName != "" {
			categoryID, err := resolveCategory(gdb, categories, categoryName)
			if err != nil {
				fmt.Printf("Row %d: %v, skipping\n", rowNum, err)
				skipped++
				continue
			}
			product.CategoryID = &categoryID
		}
		if cost, err := strconv.ParseFloat(strings.TrimSpace(cell(row, 5)), 64); err == nil && cost >= 0 {
			product.CostPrice = cost
		}
		if stock, err := strconv.Atoi(strings.TrimSpace(cell(row, 6))); err == nil && stock >= 0 {
			product.StockQuantity = stock
		}
		if featured := strings.ToLower(strings.TrimSpace(cell(row, 7))); featured == "true" || featured == "yes" || featured == "1" {
			product.IsFeatured = true
		}

		products = append(products, product)
	}

	return products, skipped, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// resolveSeller maps a seller email to a user ID. The account must already
// exist and hold the seller or admin role; imports never create accounts.
func resolveSeller(gdb *gorm.DB, cache map[string]uint, email string) (uint, error) {
	if id, ok := cache[email]; ok {
		return id, nil
	}

	var user model.User
	if err := gdb.Where("email = ?", email).First(&user).Error; err != nil {
		return 0, fmt.Errorf("seller %s not found", email)
	}
	if user.Role != model.RoleSeller && user.Role != model.RoleAdmin {
		return 0, fmt.Errorf("user %s is not a seller", email)
	}

	cache[email] = user.ID
	return user.ID, nil
}

// resolveCategory maps a category name to its ID, creating the category on
// first sight so imports do not require a pre-built taxonomy.
func resolveCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	var category model.Category
	err := gdb.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = model.Category{Name: name}
		if err := gdb.Create(&category).Error; err != nil {
			return 0, fmt.Errorf("failed to create category %s: %w", name, err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("failed to look up category %s: %w", name, err)
	}

	cache[name] = category.ID
	return category.ID, nil
}
