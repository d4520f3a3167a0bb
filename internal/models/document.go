package models

import "time"

// AdditionalDocument is a context-only upload. Only its text is ever used.
type AdditionalDocument struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    ProjectID uint      `gorm:"index;not null" json:"projectId"`
    FileName  string    `gorm:"not null" json:"fileName"`
    FileType  string    `gorm:"not null" json:"fileType"`
    FileSize  int64     `json:"fileSize"`
    CloudName string    `gorm:"not null" json:"cloudName"`
    CreatedAt time.Time `json:"createdAt"`
}
