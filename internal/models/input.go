package models

import (
    "strings"
    "time"
)

type InputType string

const (
    InputTypeInput    InputType = "INPUT"
    InputTypeCheckbox InputType = "CHECKBOX"
    InputTypeSelect   InputType = "SELECT"
)

func (t InputType) Valid() bool {
    switch t {
    case InputTypeInput, InputTypeCheckbox, InputTypeSelect:
        return true
    }
    return false
}

// Kind is the value kind an input of this type holds.
func (t InputType) Kind() ValueKind {
    if t == InputTypeCheckbox {
        return KindCheckbox
    }
    return KindText
}

// InputTypeForField maps a field type name reported by a field-info source
// ("CheckBox", "ComboBox", "TextBox", ...) to an InputType.
func InputTypeForField(fieldType string) InputType {
    t := strings.ToLower(fieldType)
    switch {
    case strings.Contains(t, "checkbox"):
        return InputTypeCheckbox
    case strings.Contains(t, "select"), strings.Contains(t, "combo"):
        return InputTypeSelect
    default:
        return InputTypeInput
    }
}

// Input is one form field together with its current value. PdfElementID is the
// AcroForm field name in the source PDF and is the join key used when filling.
type Input struct {
    ID           uint      `gorm:"primaryKey" json:"id"`
    FormID       uint      `gorm:"not null;uniqueIndex:idx_inputs_form_element" json:"formId"`
    Name         string    `gorm:"not null" json:"name"`
    Description  string    `gorm:"type:text" json:"description"`
    Type         InputType `gorm:"type:varchar(16);not null" json:"type"`
    Value        Value     `json:"value"`
    PdfElementID string    `gorm:"not null;uniqueIndex:idx_inputs_form_element" json:"pdfElementId"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}
