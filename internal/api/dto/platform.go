package dto

// PlatformDTO 平台 - 数据库属性与实时缓存指标合并后的视图
type PlatformDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameLocal   string `json:"name_local"`
	PageURL     string `json:"page_url"`
	Color       string `json:"color"`
	IsActive    bool   `json:"is_active"`
	SourceType  string `json:"source_type,omitempty"`
	Followers   int    `json:"followers"`
	Delta       int    `json:"delta"`
	LastUpdated string `json:"last_updated"`
}

// PlatformBaseDTO 平台 - 新增或修改
type PlatformBaseDTO struct {
	Name       string `json:"name" binding:"required" validate:"min=1,max=64"`
	NameLocal  string `json:"name_local" validate:"max=64"`
	PageURL    string `json:"page_url" binding:"required" validate:"url,max=512"`
	Color      string `json:"color" validate:"omitempty,hexcolor"`
	IsActive   *bool  `json:"is_active"`
	SourceType string `json:"source_type" binding:"required,oneof=facebook twitter youtube tiktok instagram linkedin snapchat"`
}
