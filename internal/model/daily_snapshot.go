package model

import "time"

// DailySnapshot 平台某一天的粉丝数快照，(platform_id, snapshot_date) 唯一，
// 当天内可覆盖更新，过了当天视为历史事实
type DailySnapshot struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PlatformID   string    `gorm:"size:36;not null;uniqueIndex:idx_platform_date" json:"platform_id"`
	SnapshotDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_platform_date;index;column:snapshot_date" json:"snapshot_date"`
	Followers    int       `gorm:"not null;default:0" json:"followers"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}
