// Package main provides the portalctl admin binary: catalog seeding and
// inspection tasks that do not belong in the API process.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"scholarship-portal-api/config"
	"scholarship-portal-api/models"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Scholarships []catalogEntry `yaml:"scholarships"`
}

type catalogEntry struct {
	Name        string   `yaml:"name"`
	Amount      string   `yaml:"amount"`
	Deadline    string   `yaml:"deadline"` // YYYY-MM-DD, empty = open-ended
	Description string   `yaml:"description"`
	Criteria    []string `yaml:"criteria"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Scholarship portal admin tasks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using environment variables")
			}
			config.InitDB()
		},
	}

	var catalogPath string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Import scholarships from a YAML catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedCatalog(catalogPath)
		},
	}
	seedCmd.Flags().StringVarP(&catalogPath, "file", "f", "scholarships.yaml", "catalog file to import")

	listCmd := &cobra.Command{
		Use:   "scholarships",
		Short: "List the scholarship catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCatalog()
		},
	}

	rootCmd.AddCommand(seedCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func seedCatalog(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	created := 0
	skipped := 0
	for _, entry := range catalog.Scholarships {
		if entry.Name == "" {
			skipped++
			continue
		}

		var existing int64
		config.DB.Model(&models.Scholarship{}).
			Where("name = ? AND delete_at IS NULL", entry.Name).
			Count(&existing)
		if existing > 0 {
			skipped++
			continue
		}

		var deadline *time.Time
		if entry.Deadline != "" {
			parsed, err := time.Parse("2006-01-02", entry.Deadline)
			if err != nil {
				return fmt.Errorf("scholarship %q: deadline must be YYYY-MM-DD: %w", entry.Name, err)
			}
			end := parsed.Add(24*time.Hour - time.Second)
			deadline = &end
		}

		now := time.Now()
		scholarship := models.Scholarship{
			Name:        entry.Name,
			Amount:      entry.Amount,
			Deadline:    deadline,
			Description: entry.Description,
			CreateAt:    &now,
			UpdateAt:    &now,
		}
		scholarship.SetCriteria(entry.Criteria)

		if err := config.DB.Create(&scholarship).Error; err != nil {
			return fmt.Errorf("failed to create scholarship %q: %w", entry.Name, err)
		}
		created++
	}

	color.Green("Imported %d scholarship(s), skipped %d", created, skipped)
	return nil
}

func listCatalog() error {
	var scholarships []models.Scholarship
	if err := config.DB.Where("delete_at IS NULL").
		Order("scholarship_id ASC").Find(&scholarships).Error; err != nil {
		return fmt.Errorf("failed to fetch scholarships: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Amount", "Deadline", "Criteria"})
	table.SetBorder(false)

	for _, scholarship := range scholarships {
		deadline := "open-ended"
		if scholarship.Deadline != nil {
			deadline = scholarship.Deadline.Format("2006-01-02")
		}
		table.Append([]string{
			fmt.Sprintf("%d", scholarship.ScholarshipID),
			scholarship.Name,
			scholarship.Amount,
			deadline,
			fmt.Sprintf("%d criteria", len(scholarship.Criteria())),
		})
	}

	table.Render()
	color.Cyan("%d scholarship(s) in catalog", len(scholarships))
	return nil
}
