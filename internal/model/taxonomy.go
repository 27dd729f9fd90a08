package model

import "time"

// Tag 标签（管理员维护的分类，带独立相似度权重）
type Tag struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Slug      string    `json:"slug" gorm:"column:slug;type:varchar(64);uniqueIndex;not null;comment:URL标识"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(128);not null;comment:标签名称"`
	Weight    float64   `json:"weight" gorm:"column:weight;type:numeric(8,2);default:1;comment:相似度权重（正数，常见0.1-10）"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `json:"-" gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// GameMode 游戏模式（与标签同构，权重语义一致）
type GameMode struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Slug      string    `json:"slug" gorm:"column:slug;type:varchar(64);uniqueIndex;not null;comment:URL标识"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(128);not null;comment:模式名称"`
	Weight    float64   `json:"weight" gorm:"column:weight;type:numeric(8,2);default:1;comment:相似度权重（正数，常见0.1-10）"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `json:"-" gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Tag) TableName() string      { return "tags" }
func (GameMode) TableName() string { return "game_modes" }
