package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 简历导出状态。
const (
	ResumeStatusIdle       = "idle"
	ResumeStatusGenerating = "generating"
	ResumeStatusCompleted  = "completed"
	ResumeStatusFailed     = "failed"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:64"`
	PasswordHash string   `gorm:"size:255"`
	Resumes      []Resume `gorm:"constraint:OnDelete:CASCADE"`
	// ActiveResumeID 记录用户当前编辑的简历，登录后直接恢复。
	ActiveResumeID *uint
}

// Resume 表示用户创建的简历文档。Content 以 JSONB 存储完整的
// 文档结构（分节数组 + 主题），领域层负责解码与校验。
type Resume struct {
	gorm.Model
	Title   string         `gorm:"size:255"`
	Content datatypes.JSON `gorm:"type:jsonb"`
	UserID  uint           `gorm:"index"`
	User    User           `gorm:"constraint:OnDelete:CASCADE"`

	Status       string `gorm:"size:32;default:idle"`
	PdfObjectKey string `gorm:"size:512"`
	// PdfFilename 是导出时确定的交付文件名（降级产物带 _error 后缀），
	// 下载链接的 Content-Disposition 以它为准。
	PdfFilename      string `gorm:"size:255"`
	PreviewObjectKey string `gorm:"size:512"`
	PageCount        int
	LastExportError  string `gorm:"size:1024"`
}
