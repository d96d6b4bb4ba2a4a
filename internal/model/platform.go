package model

import "time"

// SourceType 平台数据来源类型，封闭枚举，
// 每个取值在 fetcher 注册表里对应一个具体实现
type SourceType string

const (
	SourceFacebook  SourceType = "facebook"
	SourceTwitter   SourceType = "twitter"
	SourceYoutube   SourceType = "youtube"
	SourceTiktok    SourceType = "tiktok"
	SourceInstagram SourceType = "instagram"
	SourceLinkedin  SourceType = "linkedin"
	SourceSnapchat  SourceType = "snapchat"
)

// Platform 被追踪的社媒平台主页
type Platform struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	Name      string             `gorm:"size:100;not null;index" json:"name"`
	NameLocal string             `gorm:"size:100;not null;column:name_local" json:"name_local"`
	PageURL   string             `gorm:"size:300;column:page_url" json:"page_url"`
	Color     string             `gorm:"size:7" json:"color"`
	IsActive  bool               `gorm:"not null;default:true" json:"is_active"`
	Fetcher   *FetcherAssignment `gorm:"foreignKey:PlatformID" json:"fetcher,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (Platform) TableName() string {
	return "platforms"
}
