package repository

import (
	"fmt"

	"CrossplayDB/internal/model"

	"gorm.io/gorm"
)

// SeedBaseData 基础数据兜底：平台与商店不存在则创建（幂等，启动时调用）
func SeedBaseData(db *gorm.DB) error {
	platforms := []model.Platform{
		{Slug: "pc", Name: "PC", Family: "pc"},
		{Slug: "ps4", Name: "PlayStation 4", Family: "playstation"},
		{Slug: "ps5", Name: "PlayStation 5", Family: "playstation"},
		{Slug: "xbox-one", Name: "Xbox One", Family: "xbox"},
		{Slug: "xbox-series", Name: "Xbox Series X|S", Family: "xbox"},
		{Slug: "switch", Name: "Nintendo Switch", Family: "nintendo"},
		{Slug: "switch-2", Name: "Nintendo Switch 2", Family: "nintendo"},
	}
	for i := range platforms {
		if err := db.Where("slug = ?", platforms[i].Slug).
			FirstOrCreate(&platforms[i]).Error; err != nil {
			return fmt.Errorf("初始化平台失败: %w, slug: %s", err, platforms[i].Slug)
		}
	}

	stores := []model.Store{
		{Slug: "steam", Name: "Steam"},
		{Slug: "epic", Name: "Epic Games Store"},
		{Slug: "gog", Name: "GOG"},
		{Slug: "microsoft-store", Name: "Microsoft Store"},
	}
	for i := range stores {
		if err := db.Where("slug = ?", stores[i].Slug).
			FirstOrCreate(&stores[i]).Error; err != nil {
			return fmt.Errorf("初始化商店失败: %w, slug: %s", err, stores[i].Slug)
		}
	}
	return nil
}
