package main

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/logger"
	"edulearn/models"
	"edulearn/services/settlement"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Imports a course catalogue from CSV with the columns
// title,description,price,instructorEmail,image.
// Courses are matched on title and instructor and updated in place.
func main() {
	path := flag.String("file", "courses.csv", "CSV file to import")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Sync()
	database.ConnectDb()
	db := database.Database.Db

	admin, err := settlement.PlatformAdmin(db)
	if err != nil {
		logger.Log.Fatal("an admin account must exist before importing courses", zap.Error(err))
	}

	file, err := os.Open(*path)
	if err != nil {
		logger.Log.Fatal("failed to open CSV file", zap.String("file", *path), zap.Error(err))
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		logger.Log.Fatal("failed to read CSV", zap.Error(err))
	}
	if len(records) < 2 {
		logger.Log.Fatal("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	instructors := make(map[string]uint)
	inserted, updated, skipped := 0, 0, 0

	for i, row := range records[1:] {
		line := i + 2
		title := getField(row, headerIndex, "title")
		email := strings.ToLower(getField(row, headerIndex, "instructorEmail"))
		price, err := decimal.NewFromString(getField(row, headerIndex, "price"))
		if title == "" || email == "" || err != nil || price.IsNegative() {
			logger.Log.Warn("skipping invalid row", zap.Int("line", line))
			skipped++
			continue
		}

		instructorID, ok := instructors[email]
		if !ok {
			var instructor models.User
			if err := db.Where("email = ? AND role IN ? AND is_deleted = false", email,
				[]string{models.RoleInstructor, models.RoleAdmin}).First(&instructor).Error; err != nil {
				logger.Log.Warn("unknown instructor", zap.Int("line", line), zap.String("email", email))
				skipped++
				continue
			}
			instructorID = instructor.ID
			instructors[email] = instructorID
		}

		course := models.Course{
			Title:       title,
			Description: getField(row, headerIndex, "description"),
			Price:       price.Round(2),
			Image:       getField(row, headerIndex, "image"),
			CreatedBy:   instructorID,
			AdminID:     admin.ID,
		}

		var existing models.Course
		result := db.Where("title = ? AND created_by = ? AND is_deleted = false", title, instructorID).Limit(1).Find(&existing)
		if result.Error != nil {
			logger.Log.Error("looking up course", zap.Int("line", line), zap.Error(result.Error))
			continue
		}

		if result.RowsAffected == 0 {
			if err := db.Create(&course).Error; err != nil {
				logger.Log.Error("inserting course", zap.Int("line", line), zap.Error(err))
				continue
			}
			inserted++
			continue
		}

		existing.Description = course.Description
		existing.Price = course.Price
		if course.Image != "" {
			existing.Image = course.Image
		}
		if err := db.Save(&existing).Error; err != nil {
			logger.Log.Error("updating course", zap.Int("line", line), zap.Error(err))
			continue
		}
		updated++
	}

	logger.Log.Info("import complete",
		zap.Int("inserted", inserted),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped))
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
