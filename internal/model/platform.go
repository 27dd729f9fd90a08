package model

import "time"

// Platform 平台（主机/PC）
type Platform struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Slug      string    `json:"slug" gorm:"column:slug;type:varchar(64);uniqueIndex;not null;comment:URL标识"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(128);not null;comment:平台名称"`
	Family    string    `json:"family" gorm:"column:family;type:varchar(32);comment:平台家族：playstation/xbox/nintendo/pc"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// Store PC商店（Steam/Epic等）
type Store struct {
	ID        uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Slug      string    `json:"slug" gorm:"column:slug;type:varchar(64);uniqueIndex;not null;comment:URL标识"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(128);not null;comment:商店名称"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// GamePlatformGroup 主机平台互通组：同组内平台之间确认可跨平台联机
type GamePlatformGroup struct {
	ID        uint64     `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	GameID    uint64     `json:"game_id" gorm:"column:game_id;type:bigint;index;not null;comment:关联游戏ID"`
	Comment   string     `json:"comment" gorm:"column:comment;type:varchar(256);comment:备注（如需要同版本）"`
	CreatedAt time.Time  `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	Platforms []Platform `gorm:"many2many:game_platform_group_platforms" json:"platforms"`
}

// GameStorePlatform PC商店跨平台条目：商店+所属平台（通常为PC）
type GameStorePlatform struct {
	ID         uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	GameID     uint64    `json:"game_id" gorm:"column:game_id;type:bigint;index;not null;comment:关联游戏ID"`
	StoreID    uint64    `json:"store_id" gorm:"column:store_id;type:bigint;not null;comment:关联商店ID"`
	PlatformID uint64    `json:"platform_id" gorm:"column:platform_id;type:bigint;not null;comment:关联平台ID"`
	CreatedAt  time.Time `json:"-" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (Platform) TableName() string          { return "platforms" }
func (Store) TableName() string             { return "stores" }
func (GamePlatformGroup) TableName() string { return "game_platform_groups" }
func (GameStorePlatform) TableName() string { return "game_store_platforms" }
