package model

import "time"

// FetcherAssignment 平台与抓取器变体的一对一绑定，
// 平台存在期间不允许单独删除绑定
type FetcherAssignment struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	PlatformID string     `gorm:"size:36;not null;uniqueIndex" json:"platform_id"`
	SourceType SourceType `gorm:"size:20;not null;column:source_type" json:"source_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (FetcherAssignment) TableName() string {
	return "fetcher_assignments"
}
