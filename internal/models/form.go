package models

import "time"

// Form is an uploaded PDF. Its Inputs are filled in by the enrichment pipeline
// after the row is committed, so a Form may exist with zero Inputs.
type Form struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    ProjectID uint      `gorm:"index;not null" json:"projectId"`
    Name      string    `gorm:"not null" json:"name"`
    CloudName string    `gorm:"not null" json:"cloudName"`
    FileName  string    `gorm:"not null" json:"fileName"`
    FileType  string    `gorm:"not null" json:"fileType"`
    FileSize  int64     `json:"fileSize"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
    Inputs    []Input   `gorm:"constraint:OnDelete:CASCADE" json:"inputs"`
    Project   *Project  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
