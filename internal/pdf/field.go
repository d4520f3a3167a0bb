package pdf

// FieldDescriptor is one AcroForm field as reported by a field-info source.
// Positions are in points from the top-left corner of the page.
type FieldDescriptor struct {
    PageIndex    int     `json:"PageIndex"`
    Type         string  `json:"Type"`
    FieldName    string  `json:"FieldName"`
    AltFieldName string  `json:"AltFieldName"`
    Value        string  `json:"Value"`
    Left         float64 `json:"Left"`
    Top          float64 `json:"Top"`
    Width        float64 `json:"Width"`
    Height       float64 `json:"Height"`
}

// Key is the name shown to the LLM: the alternate (tooltip) name when present.
func (f FieldDescriptor) Key() string {
    if f.AltFieldName != "" {
        return f.AltFieldName
    }
    return f.FieldName
}

// Matches reports whether name refers to this field by either of its names.
func (f FieldDescriptor) Matches(name string) bool {
    return name != "" && (name == f.FieldName || name == f.AltFieldName)
}
