package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/database"
)

// 初始化套餐目录和管理员账号，可重复执行
func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.SkippedMeal{},
		&model.Menu{},
		&model.Video{},
		&model.Notification{},
		&model.Feedback{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Println("Schema migrated")

	plans := []model.Plan{
		{
			Name:        "Focus Start Plan",
			Price:       2899,
			Description: "Basic Plan",
			Features: model.StringArray{
				"Homestyle Comfort Meals", "Freshly Prepared Daily",
				"Perfect Portion Sizes", "Lunch & Dinner Included",
			},
			DurationDays: 30,
		},
		{
			Name:        "Smart Study Plan",
			Price:       3299,
			Description: "Standard Plan",
			Features: model.StringArray{
				"Includes Focus Start Benefits", "Weekend Special Treats",
				"Daily Sweet & Savory Sides", "Brain-Boosting Nutrition",
			},
			DurationDays: 30,
		},
		{
			Name:        "Peak Performance Plan",
			Price:       3699,
			Description: "Premium Plan",
			Features: model.StringArray{
				"High-Protein Power Meals", "Chef-Curated Healthy Menu",
				"Low-Oil & Wholesome", "Customized for Performance",
			},
			DurationDays: 30,
		},
		{
			Name:        "Focus Start - Trial Pack",
			Price:       750,
			Description: "7-Day Trial",
			Features: model.StringArray{
				"Homestyle Comfort Meals", "Freshly Prepared Daily",
				"Perfect Portion Sizes", "Full focus start benefits",
			},
			DurationDays: 7,
		},
		{
			Name:        "Smart Study - Trial Pack",
			Price:       850,
			Description: "7-Day Trial",
			Features: model.StringArray{
				"Includes Focus Start Benefits", "Daily Sweet & Savory Sides",
				"Perfect for busy students",
			},
			DurationDays: 7,
		},
		{
			Name:        "Peak Performance - Trial Pack",
			Price:       950,
			Description: "7-Day Trial",
			Features: model.StringArray{
				"High-Protein Power Meals", "Low-Oil & Wholesome",
				"Premium diet menu",
			},
			DurationDays: 7,
		},
	}

	for _, plan := range plans {
		var count int64
		db.Model(&model.Plan{}).Where("name = ?", plan.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			log.Fatalf("Failed to seed plan %s: %v", plan.Name, err)
		}
		log.Printf("Seeded plan: %s", plan.Name)
	}

	// 管理员账号（密码请在首次登录后修改）
	var adminCount int64
	db.Model(&model.User{}).Where("role = ?", "admin").Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin := model.User{
			Name:         "Admin",
			Phone:        "9999999999",
			Email:        "admin@tiffinbox.local",
			PasswordHash: string(hash),
			Role:         "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
		log.Println("Seeded admin user (phone 9999999999)")
	}

	log.Println("Seed complete")
}
