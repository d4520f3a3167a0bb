package pdf

import (
    "bytes"
    "encoding/json"
    "errors"
    "fmt"
    "slices"
    "strconv"
    "strings"

    "github.com/pdfcpu/pdfcpu/pkg/api"
    "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
)

// FieldValue is one value to write into a form field. Type is the
// FieldDescriptor type of the target field.
type FieldValue struct {
    Name    string
    Type    string
    Text    string
    Checked bool
}

// PDFCPUFiller fills AcroForm fields in-process with pdfcpu.
type PDFCPUFiller struct{}

// Fields lists the fields of template that pdfcpu can address.
func (PDFCPUFiller) Fields(template []byte) ([]FieldDescriptor, error) {
    ix, err := indexForm(template)
    if err != nil { return nil, err }
    out := make([]FieldDescriptor, 0, len(ix.fields))
    for _, f := range ix.fields {
        if _, ok := ix.lookup(f.FieldName); ok { out = append(out, f) }
    }
    return out, nil
}

// Fill writes values into template and returns the PDF together with the
// names it left unset: unknown fields and choice values outside the field's
// options. With flatten set every field is locked read-only afterwards.
// Values that already match the template are not an error.
func (PDFCPUFiller) Fill(template []byte, values []FieldValue, flatten bool) ([]byte, []string, error) {
    out := template
    var rejected []string
    if len(values) > 0 {
        ix, err := indexForm(template)
        if err != nil { return nil, nil, err }
        var group form.FormGroup
        group, rejected = ix.formGroup(values)
        payload, err := json.Marshal(group)
        if err != nil {
            return nil, nil, fmt.Errorf("encode form values: %w", err)
        }
        var buf bytes.Buffer
        err = api.FillForm(bytes.NewReader(template), bytes.NewReader(payload), &buf, relaxedConfig())
        switch {
        case errors.Is(err, api.ErrNoFormFieldsAffected):
            // nothing differs from the template
        case err != nil:
            return nil, nil, fmt.Errorf("fill form: %w", err)
        default:
            out = buf.Bytes()
        }
    }
    if flatten {
        var buf bytes.Buffer
        err := api.LockFormFields(bytes.NewReader(out), &buf, nil, relaxedConfig())
        switch {
        case errors.Is(err, api.ErrNoFormFieldsAffected):
        case err != nil:
            return nil, nil, fmt.Errorf("lock form fields: %w", err)
        default:
            out = buf.Bytes()
        }
    }
    return out, rejected, nil
}

// formIndex joins the qualified field names of the walker with the fields of
// pdfcpu's own form model, which are keyed by object-number ids. pdfcpu folds
// a widget below a text or button parent into that parent, so a name resolves
// to the longest prefix of its object path that pdfcpu knows.
type formIndex struct {
    fields []FieldDescriptor
    paths  map[string][]int
    byID   map[string]any
}

func indexForm(template []byte) (*formIndex, error) {
    w, err := walkForm(template)
    if err != nil { return nil, err }
    ix := &formIndex{fields: w.out, paths: w.paths, byID: map[string]any{}}
    if len(w.out) == 0 { return ix, nil }

    group, err := api.ExportForm(bytes.NewReader(template), "template", relaxedConfig())
    if errors.Is(err, api.ErrNoFormFieldsAffected) { return ix, nil }
    if err != nil { return nil, fmt.Errorf("export form: %w", err) }
    for _, f := range group.Forms {
        for _, x := range f.TextFields { ix.byID[x.ID] = x }
        for _, x := range f.DateFields { ix.byID[x.ID] = x }
        for _, x := range f.CheckBoxes { ix.byID[x.ID] = x }
        for _, x := range f.RadioButtonGroups { ix.byID[x.ID] = x }
        for _, x := range f.ComboBoxes { ix.byID[x.ID] = x }
        for _, x := range f.ListBoxes { ix.byID[x.ID] = x }
    }
    return ix, nil
}

func (ix *formIndex) lookup(name string) (any, bool) {
    path := ix.paths[name]
    for n := len(path); n > 0; n-- {
        if slices.Contains(path[:n], -1) { continue }
        ids := make([]string, n)
        for i, nr := range path[:n] { ids[i] = strconv.Itoa(nr) }
        if f, ok := ix.byID[strings.Join(ids, ".")]; ok { return f, true }
    }
    return nil, false
}

// formGroup builds the pdfcpu fill payload. Each entry is a copy of the
// exported field so lock state and options survive; a later value for the
// same pdfcpu field replaces an earlier one.
func (ix *formIndex) formGroup(values []FieldValue) (form.FormGroup, []string) {
    var rejected []string
    var order []string
    entries := map[string]any{}
    for _, v := range values {
        target, ok := ix.lookup(v.Name)
        if !ok {
            rejected = append(rejected, v.Name)
            continue
        }
        var id string
        var entry any
        switch t := target.(type) {
        case *form.TextField:
            c := *t
            c.Value = v.Text
            id, entry = c.ID, &c
        case *form.DateField:
            c := *t
            c.Value = v.Text
            id, entry = c.ID, &c
        case *form.CheckBox:
            c := *t
            c.Value = v.Checked
            id, entry = c.ID, &c
        case *form.RadioButtonGroup:
            if !allowed(v.Text, t.Options, false) {
                rejected = append(rejected, v.Name)
                continue
            }
            c := *t
            c.Value = v.Text
            id, entry = c.ID, &c
        case *form.ComboBox:
            if !allowed(v.Text, t.Options, t.Editable) {
                rejected = append(rejected, v.Name)
                continue
            }
            c := *t
            c.Value = v.Text
            id, entry = c.ID, &c
        case *form.ListBox:
            if !allowed(v.Text, t.Options, false) {
                rejected = append(rejected, v.Name)
                continue
            }
            c := *t
            c.Values = nil
            if v.Text != "" { c.Values = []string{v.Text} }
            id, entry = c.ID, &c
        default:
            rejected = append(rejected, v.Name)
            continue
        }
        if _, seen := entries[id]; !seen { order = append(order, id) }
        entries[id] = entry
    }

    var f form.Form
    for _, id := range order {
        switch e := entries[id].(type) {
        case *form.TextField:
            f.TextFields = append(f.TextFields, e)
        case *form.DateField:
            f.DateFields = append(f.DateFields, e)
        case *form.CheckBox:
            f.CheckBoxes = append(f.CheckBoxes, e)
        case *form.RadioButtonGroup:
            f.RadioButtonGroups = append(f.RadioButtonGroups, e)
        case *form.ComboBox:
            f.ComboBoxes = append(f.ComboBoxes, e)
        case *form.ListBox:
            f.ListBoxes = append(f.ListBoxes, e)
        }
    }
    return form.FormGroup{Forms: []form.Form{f}}, rejected
}

// allowed mirrors pdfcpu's option check so one bad choice does not fail the whole fill.
func allowed(v string, options []string, editable bool) bool {
    if v == "" || editable || len(options) == 0 { return true }
    if slices.Contains(options, v) { return true }
    i, err := strconv.Atoi(v)
    return err == nil && i >= 0 && i < len(options)
}
