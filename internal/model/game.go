package model

import (
	"time"

	"gorm.io/datatypes"
)

// GameStatus 游戏生命周期状态枚举
type GameStatus string

const (
	GameStatusPending  GameStatus = "pending"  // 待审核（公开提交后初始状态）
	GameStatusApproved GameStatus = "approved" // 已通过（仅此状态参与推荐与孤儿分析）
	GameStatusRejected GameStatus = "rejected" // 已拒绝
)

// Game 游戏主表
type Game struct {
	ID          uint64         `json:"id" gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	GameUUID    string         `json:"game_uuid" gorm:"column:game_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	Slug        string         `json:"slug" gorm:"column:slug;type:varchar(128);uniqueIndex;not null;comment:URL标识"`
	Name        string         `json:"name" gorm:"column:name;type:varchar(256);not null;comment:游戏名称"`
	Summary     string         `json:"summary" gorm:"column:summary;type:text;comment:简介"`
	Status      GameStatus     `json:"status" gorm:"column:status;type:varchar(16);default:pending;index;comment:状态：pending/approved/rejected"`
	IGDBID      *uint64        `json:"igdb_id,omitempty" gorm:"column:igdb_id;type:bigint;comment:IGDB游戏ID"`
	CoverURL    string         `json:"cover_url" gorm:"column:cover_url;type:varchar(512);comment:封面图地址"`
	IGDBPayload datatypes.JSON `json:"-" gorm:"column:igdb_payload;type:jsonb;comment:IGDB原始元数据快照"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`

	// 关联（推荐管线一次性加载后只读）
	Tags           []Tag               `gorm:"many2many:game_tags" json:"tags"`
	GameModes      []GameMode          `gorm:"many2many:game_game_modes" json:"game_modes"`
	PlatformGroups []GamePlatformGroup `gorm:"foreignKey:GameID" json:"platform_groups"`
	StorePlatforms []GameStorePlatform `gorm:"foreignKey:GameID" json:"store_platforms"`
}

func (Game) TableName() string { return "games" }

// TagIDSet 返回游戏已关联标签ID集合
func (g *Game) TagIDSet() map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(g.Tags))
	for _, t := range g.Tags {
		set[t.ID] = struct{}{}
	}
	return set
}

// ModeIDSet 返回游戏已关联模式ID集合
func (g *Game) ModeIDSet() map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(g.GameModes))
	for _, m := range g.GameModes {
		set[m.ID] = struct{}{}
	}
	return set
}

// PlatformIDSet 平台支持集合：主机平台组与PC商店条目两类来源取并集
func (g *Game) PlatformIDSet() map[uint64]struct{} {
	set := make(map[uint64]struct{})
	for _, grp := range g.PlatformGroups {
		for _, p := range grp.Platforms {
			set[p.ID] = struct{}{}
		}
	}
	for _, sp := range g.StorePlatforms {
		set[sp.PlatformID] = struct{}{}
	}
	return set
}
