package models

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as variables in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run main.go

The report will show:
- Each table name
- List of columns that exist in the database but not in the Go model
- Summary of total mismatched columns across all tables

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_slug

--- Table: departments ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// tableModels maps each table owned by this service to its model.
var tableModels = map[string]interface{}{
	"departments":         Department{},
	"users":               User{},
	"projects":            Project{},
	"project_departments": ProjectDepartment{},
	"project_media":       ProjectMedia{},
	"project_documents":   ProjectDocument{},
}

// Migrate creates or updates every table used by the review workflow.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Project{}, "Departments", &ProjectDepartment{}); err != nil {
		return fmt.Errorf("setup project_departments join table: %w", err)
	}
	return db.AutoMigrate(
		&Department{},
		&User{},
		&Project{},
		&ProjectDepartment{},
		&ProjectMedia{},
		&ProjectDocument{},
	)
}

func GenerateModels(db *gorm.DB) error {
	// First, ensure the database is ready
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Set up verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		Department{},
		User{},
		Project{},
		ProjectDepartment{},
		ProjectMedia{},
		ProjectDocument{},
	)

	fmt.Println("Starting database migration...")

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 newLogger,
	})
	if err := Migrate(migrateDB); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	fmt.Println("Database migration completed successfully!")

	GenerateColumnMismatchReport(db)

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport generates a report of database columns that aren't accounted for in Go models
func GenerateColumnMismatchReport(db *gorm.DB) int {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for tableName, modelStruct := range tableModels {
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Printf("Table does not exist yet (will be created during migration)\n")
			} else {
				fmt.Printf("Error getting columns for table %s: %v\n", tableName, err)
			}
			continue
		}

		mismatches := findColumnMismatches(dbColumns, getModelFields(db, modelStruct))
		if len(mismatches) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Printf("  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	if !db.Migrator().HasTable(tableName) {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// getModelFields resolves the column names gorm maps for a model, skipping relations.
func getModelFields(db *gorm.DB, model interface{}) []string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fallbackModelFields(model)
	}
	var fields []string
	for _, f := range stmt.Schema.Fields {
		if f.DBName != "" {
			fields = append(fields, f.DBName)
		}
	}
	return fields
}

// fallbackModelFields reads explicit column tags when the schema cannot be parsed.
func fallbackModelFields(model interface{}) []string {
	var fields []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if column := field.Tag.Get("db"); column != "" {
			fields = append(fields, column)
		}
	}
	return fields
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
