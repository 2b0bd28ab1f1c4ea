package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/ikkim/survei-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <questions.xlsx> [-y]")
	}
	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	rows, rowErrs, err := readQuestionRows(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, e := range rowErrs {
		fmt.Printf("  skip %v\n", e)
	}
	fmt.Printf("Questions to import: %d (skipped rows: %d)\n", len(rows), len(rowErrs))
	if len(rows) == 0 {
		return
	}

	// 사용자 확인
	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	importer := &questionImporter{
		categories: repository.NewCategoryRepository(db.GetDB()),
		questions:  repository.NewQuestionRepository(db.GetDB()),
	}
	result := importer.Import(rows)
	for _, e := range result.Errors {
		fmt.Printf("  failed %v\n", e)
	}

	fmt.Println("Import completed!")
	fmt.Printf("  Questions created: %d\n", result.Questions)
	fmt.Printf("  Categories created: %d\n", result.Categories)
	fmt.Printf("  Failed rows: %d\n", len(result.Errors))
}
