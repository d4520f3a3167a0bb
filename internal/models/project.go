package models

import "time"

// Project groups forms and the additional documents used as context when suggesting values.
type Project struct {
    ID                  uint                 `gorm:"primaryKey" json:"id"`
    Name                string               `gorm:"not null" json:"name"`
    SystemPrompt        string               `gorm:"type:text;not null;default:''" json:"systemPrompt"`
    CreatedAt           time.Time            `json:"createdAt"`
    UpdatedAt           time.Time            `json:"updatedAt"`
    Forms               []Form               `gorm:"constraint:OnDelete:CASCADE" json:"forms,omitempty"`
    AdditionalDocuments []AdditionalDocument `gorm:"constraint:OnDelete:CASCADE" json:"additionalDocuments,omitempty"`
}

// ProjectListItem is the list projection with a count of attached documents.
type ProjectListItem struct {
    ID            uint      `json:"id"`
    Name          string    `json:"name"`
    SystemPrompt  string    `json:"systemPrompt"`
    DocumentCount int64     `json:"documentCount"`
    CreatedAt     time.Time `json:"createdAt"`
}
