package models

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestValueFromAnyCheckbox(t *testing.T) {
    cases := []struct {
        raw  any
        want bool
    }{
        {true, true},
        {false, false},
        {nil, false},
        {float64(0), false},
        {float64(1), true},
        {"", false},
        {"false", false},
        {"No", false},
        {" off ", false},
        {"0", false},
        {"yes", true},
        {"X", true},
        {map[string]any{}, true},
    }
    for _, tc := range cases {
        v := ValueFromAny(InputTypeCheckbox, tc.raw)
        assert.Equal(t, KindCheckbox, v.Kind())
        assert.Equal(t, tc.want, v.Checked(), "%#v", tc.raw)
    }
}

func TestValueFromAnyText(t *testing.T) {
    assert.Equal(t, "Jane", ValueFromAny(InputTypeInput, "Jane").Text())
    assert.Equal(t, "", ValueFromAny(InputTypeInput, nil).Text())
    assert.Equal(t, "42", ValueFromAny(InputTypeSelect, float64(42)).Text())
    assert.Equal(t, "3.5", ValueFromAny(InputTypeInput, 3.5).Text())
    assert.Equal(t, "true", ValueFromAny(InputTypeInput, true).Text())
    assert.Equal(t, `["a","b"]`, ValueFromAny(InputTypeInput, []any{"a", "b"}).Text())
    assert.Equal(t, KindText, ValueFromAny(InputTypeSelect, "x").Kind())
}

func TestValueJSON(t *testing.T) {
    b, err := json.Marshal(TextValue("Jane"))
    require.NoError(t, err)
    assert.JSONEq(t, `"Jane"`, string(b))

    b, err = json.Marshal(CheckboxValue(true))
    require.NoError(t, err)
    assert.JSONEq(t, `true`, string(b))

    b, err = json.Marshal(Value{})
    require.NoError(t, err)
    assert.Equal(t, "null", string(b))

    var v Value
    require.NoError(t, json.Unmarshal([]byte(`false`), &v))
    assert.Equal(t, KindCheckbox, v.Kind())
    assert.False(t, v.Checked())

    require.NoError(t, json.Unmarshal([]byte(`"Doe"`), &v))
    assert.Equal(t, TextValue("Doe"), v)

    require.NoError(t, json.Unmarshal([]byte(`null`), &v))
    assert.True(t, v.IsZero())

    assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
}

func TestValueScanRoundTrip(t *testing.T) {
    for _, in := range []Value{TextValue("hello"), CheckboxValue(true), CheckboxValue(false), TextValue("")} {
        dv, err := in.Value()
        require.NoError(t, err)

        var out Value
        require.NoError(t, out.Scan(dv))
        assert.Equal(t, in, out)
    }

    var out Value
    require.NoError(t, out.Scan([]byte(`"from bytes"`)))
    assert.Equal(t, "from bytes", out.Text())
}

func TestValueAs(t *testing.T) {
    assert.True(t, TextValue("yes").As(InputTypeCheckbox).Checked())
    assert.Equal(t, "false", CheckboxValue(false).As(InputTypeInput).Text())
}

func TestInputTypeForField(t *testing.T) {
    assert.Equal(t, InputTypeCheckbox, InputTypeForField("CheckBox"))
    assert.Equal(t, InputTypeSelect, InputTypeForField("ComboBox"))
    assert.Equal(t, InputTypeSelect, InputTypeForField("select"))
    assert.Equal(t, InputTypeInput, InputTypeForField("ListBox"))
    assert.Equal(t, InputTypeInput, InputTypeForField("TextBox"))
    assert.Equal(t, InputTypeInput, InputTypeForField("RadioButton"))
    assert.Equal(t, InputTypeInput, InputTypeForField(""))
}
