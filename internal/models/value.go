package models

import (
    "bytes"
    "database/sql/driver"
    "encoding/json"
    "fmt"
    "math"
    "strconv"
    "strings"

    "gorm.io/datatypes"
    "gorm.io/gorm"
    "gorm.io/gorm/schema"
)

type ValueKind string

const (
    KindText     ValueKind = "text"
    KindCheckbox ValueKind = "checkbox"
)

// Value is the current value of an Input. A text value carries a string, a
// checkbox value carries a bool. It is stored and serialized as the bare JSON
// scalar ("Jane", true) so the kind is recoverable from the encoding alone.
type Value struct {
    kind    ValueKind
    text    string
    checked bool
}

func TextValue(s string) Value      { return Value{kind: KindText, text: s} }
func CheckboxValue(b bool) Value    { return Value{kind: KindCheckbox, checked: b} }
func (v Value) Kind() ValueKind     { return v.kind }
func (v Value) IsZero() bool        { return v.kind == "" }

// Text returns the string form. Checkbox values render as "true"/"false".
func (v Value) Text() string {
    if v.kind == KindCheckbox {
        return strconv.FormatBool(v.checked)
    }
    return v.text
}

// Checked reports the checkbox state. Text values are never checked.
func (v Value) Checked() bool { return v.kind == KindCheckbox && v.checked }

func (v Value) String() string { return v.Text() }

// Scalar returns the value as a plain Go scalar (string, bool or nil when unset).
func (v Value) Scalar() any {
    switch v.kind {
    case KindCheckbox:
        return v.checked
    case KindText:
        return v.text
    }
    return nil
}

// As converts the value into the kind required by an input type.
func (v Value) As(t InputType) Value { return ValueFromAny(t, v.Scalar()) }

func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Scalar()) }

func (v *Value) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if len(b) == 0 || bytes.Equal(b, []byte("null")) {
        *v = Value{}
        return nil
    }
    var raw any
    if err := json.Unmarshal(b, &raw); err != nil { return err }
    switch x := raw.(type) {
    case bool:
        *v = CheckboxValue(x)
    case string:
        *v = TextValue(x)
    case float64:
        *v = TextValue(formatNumber(x))
    default:
        return fmt.Errorf("value must be a string or boolean, got %s", string(b))
    }
    return nil
}

// Value implements driver.Valuer, storing the scalar through datatypes.JSON.
func (v Value) Value() (driver.Value, error) {
    if v.kind == "" {
        return datatypes.JSON("null").Value()
    }
    b, err := json.Marshal(v.Scalar())
    if err != nil { return nil, err }
    return datatypes.JSON(b).Value()
}

// Scan implements sql.Scanner.
func (v *Value) Scan(src any) error {
    if src == nil {
        *v = Value{}
        return nil
    }
    var j datatypes.JSON
    if err := j.Scan(src); err != nil { return err }
    if len(j) == 0 {
        *v = Value{}
        return nil
    }
    return v.UnmarshalJSON(j)
}

func (Value) GormDataType() string { return "json" }

func (Value) GormDBDataType(db *gorm.DB, field *schema.Field) string {
    return datatypes.JSON(nil).GormDBDataType(db, field)
}

// ValueFromAny coerces a loosely typed value (typically decoded from an LLM
// response or a request body) into the kind required by t. Checkbox inputs
// use truthiness; every other type takes the string form, empty for nil.
func ValueFromAny(t InputType, raw any) Value {
    if t.Kind() == KindCheckbox {
        return CheckboxValue(Truthy(raw))
    }
    return TextValue(stringify(raw))
}

var falseWords = map[string]bool{"": true, "false": true, "0": true, "no": true, "off": true, "null": true}

// Truthy follows JavaScript truthiness except that strings spelling a false
// value ("false", "0", "no", "off") are false too.
func Truthy(raw any) bool {
    switch x := raw.(type) {
    case nil:
        return false
    case bool:
        return x
    case string:
        return !falseWords[strings.ToLower(strings.TrimSpace(x))]
    case float64:
        return x != 0 && !math.IsNaN(x)
    case float32:
        return x != 0
    case int:
        return x != 0
    case int64:
        return x != 0
    case json.Number:
        f, err := x.Float64()
        return err == nil && f != 0
    case Value:
        return Truthy(x.Scalar())
    }
    return true
}

func stringify(raw any) string {
    switch x := raw.(type) {
    case nil:
        return ""
    case string:
        return x
    case bool:
        return strconv.FormatBool(x)
    case float64:
        return formatNumber(x)
    case int:
        return strconv.Itoa(x)
    case int64:
        return strconv.FormatInt(x, 10)
    case json.Number:
        return x.String()
    case Value:
        return x.Text()
    }
    b, err := json.Marshal(raw)
    if err != nil { return fmt.Sprint(raw) }
    return string(b)
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
