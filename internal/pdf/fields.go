package pdf

import (
    "bytes"
    "fmt"

    "github.com/pdfcpu/pdfcpu/pkg/api"
    "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
    "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

    "github.com/local/vibedoc/internal/apperr"
)

// Field type names, spelled the way PDF.co reports them.
const (
    TypeTextBox     = "TextBox"
    TypeCheckBox    = "CheckBox"
    TypeRadioButton = "RadioButton"
    TypeComboBox    = "ComboBox"
    TypeListBox     = "ListBox"
    TypeSignature   = "Signature"
    TypePushButton  = "PushButton"
)

const defaultPageHeight = 792.0

func relaxedConfig() *model.Configuration {
    conf := model.NewDefaultConfiguration()
    conf.ValidationMode = model.ValidationRelaxed
    return conf
}

// ListFields walks the AcroForm of a PDF and returns its terminal fields in
// document order. Push buttons are omitted. A PDF without a form yields none.
func ListFields(data []byte) ([]FieldDescriptor, error) {
    w, err := walkForm(data)
    if err != nil { return nil, err }
    return w.out, nil
}

func walkForm(data []byte) (*walker, error) {
    ctx, err := api.ReadContext(bytes.NewReader(data), relaxedConfig())
    if err != nil {
        return nil, &apperr.ExtractionError{Err: fmt.Errorf("read pdf: %w", err)}
    }
    if err := ctx.EnsurePageCount(); err != nil {
        return nil, &apperr.ExtractionError{Err: fmt.Errorf("page count: %w", err)}
    }

    w := &walker{ctx: ctx, paths: map[string][]int{}}
    rootDict, err := ctx.Catalog()
    if err != nil {
        return nil, &apperr.ExtractionError{Err: fmt.Errorf("catalog: %w", err)}
    }
    acroFormObj, found := rootDict.Find("AcroForm")
    if !found {
        return w, nil
    }
    acroFormDict, err := ctx.DereferenceDict(acroFormObj)
    if err != nil || acroFormDict == nil {
        return w, nil
    }
    fieldsObj, found := acroFormDict.Find("Fields")
    if !found {
        return w, nil
    }
    fieldsArray, err := ctx.DereferenceArray(fieldsObj)
    if err != nil {
        return nil, &apperr.ExtractionError{Err: fmt.Errorf("fields array: %w", err)}
    }

    w.pages = indexWidgets(ctx)
    for _, obj := range fieldsArray {
        w.field(obj, "", nil, inherited{})
    }
    return w, nil
}

type pageInfo struct {
    index  int
    height float64
}

// indexWidgets maps annotation object numbers to the page they sit on.
func indexWidgets(ctx *model.Context) map[int]pageInfo {
    pages := map[int]pageInfo{}
    for i := 1; i <= ctx.PageCount; i++ {
        pageDict, _, inh, err := ctx.PageDict(i, false)
        if err != nil || pageDict == nil {
            continue
        }
        height := defaultPageHeight
        if inh != nil && inh.MediaBox != nil {
            height = inh.MediaBox.Height()
        }
        annotsObj, found := pageDict.Find("Annots")
        if !found {
            continue
        }
        annots, err := ctx.DereferenceArray(annotsObj)
        if err != nil {
            continue
        }
        for _, a := range annots {
            if ir, ok := a.(types.IndirectRef); ok {
                pages[ir.ObjectNumber.Value()] = pageInfo{index: i - 1, height: height}
            }
        }
    }
    return pages
}

// inherited carries field attributes that kids inherit from their parent.
type inherited struct {
    ft    string
    flags int
    value types.Object
}

type walker struct {
    ctx   *model.Context
    pages map[int]pageInfo
    out   []FieldDescriptor
    // object numbers from the root field down to each terminal field; -1 marks a direct object
    paths map[string][]int
}

func (w *walker) field(obj types.Object, parentName string, parentPath []int, inh inherited) {
    dict, err := w.ctx.DereferenceDict(obj)
    if err != nil || dict == nil {
        return
    }
    objNr := -1
    if ir, ok := obj.(types.IndirectRef); ok {
        objNr = ir.ObjectNumber.Value()
    }
    path := append(append([]int(nil), parentPath...), objNr)

    name := parentName
    if t, found := dict.Find("T"); found {
        if partial, err := w.ctx.DereferenceStringOrHexLiteral(t, model.V10, nil); err == nil {
            if name != "" {
                name += "."
            }
            name += partial
        }
    }
    if ft, found := dict.Find("FT"); found {
        if n, err := w.ctx.DereferenceName(ft, model.V10, nil); err == nil {
            inh.ft = n.Value()
        }
    }
    if ff, found := dict.Find("Ff"); found {
        if n, err := w.ctx.DereferenceInteger(ff); err == nil && n != nil {
            inh.flags = n.Value()
        }
    }
    if v, found := dict.Find("V"); found {
        inh.value = v
    }

    // kids carrying a T entry are child fields, the others are widgets
    var widgets []types.Object
    if kidsObj, found := dict.Find("Kids"); found {
        if kids, err := w.ctx.DereferenceArray(kidsObj); err == nil {
            hasChildFields := false
            for _, k := range kids {
                kd, err := w.ctx.DereferenceDict(k)
                if err != nil || kd == nil {
                    continue
                }
                if _, isField := kd.Find("T"); isField {
                    hasChildFields = true
                    w.field(k, name, path, inh)
                } else {
                    widgets = append(widgets, k)
                }
            }
            if hasChildFields && len(widgets) == 0 {
                return
            }
        }
    }
    if name == "" {
        return
    }

    fd := FieldDescriptor{FieldName: name, Type: fieldType(inh)}
    if fd.Type == TypePushButton {
        return
    }
    if tu, found := dict.Find("TU"); found {
        if alt, err := w.ctx.DereferenceStringOrHexLiteral(tu, model.V10, nil); err == nil {
            fd.AltFieldName = alt
        }
    }
    if inh.value != nil {
        fd.Value = w.value(inh.value)
    }

    // position comes from the merged widget or the first separate one
    placed := w.place(&fd, obj, dict)
    for i := 0; !placed && i < len(widgets); i++ {
        if wd, err := w.ctx.DereferenceDict(widgets[i]); err == nil && wd != nil {
            placed = w.place(&fd, widgets[i], wd)
        }
    }
    w.out = append(w.out, fd)
    if _, dup := w.paths[name]; !dup {
        w.paths[name] = path
    }
}

func (w *walker) place(fd *FieldDescriptor, obj types.Object, dict types.Dict) bool {
    rectObj, found := dict.Find("Rect")
    if !found {
        return false
    }
    rect, err := w.ctx.DereferenceArray(rectObj)
    if err != nil || len(rect) != 4 {
        return false
    }
    var c [4]float64
    for i, o := range rect {
        if f, err := w.ctx.DereferenceNumber(o); err == nil {
            c[i] = f
        }
    }
    llx, lly, urx, ury := min(c[0], c[2]), min(c[1], c[3]), max(c[0], c[2]), max(c[1], c[3])

    height := defaultPageHeight
    if ir, ok := obj.(types.IndirectRef); ok {
        if p, ok := w.pages[ir.ObjectNumber.Value()]; ok {
            fd.PageIndex = p.index
            height = p.height
        }
    }
    fd.Left = llx
    fd.Top = height - ury
    fd.Width = urx - llx
    fd.Height = ury - lly
    return true
}

func (w *walker) value(obj types.Object) string {
    o, err := w.ctx.Dereference(obj)
    if err != nil || o == nil {
        return ""
    }
    switch v := o.(type) {
    case types.Name:
        return v.Value()
    case types.StringLiteral, types.HexLiteral:
        if s, err := w.ctx.DereferenceStringOrHexLiteral(v, model.V10, nil); err == nil {
            return s
        }
    }
    return ""
}

func fieldType(inh inherited) string {
    switch inh.ft {
    case "Btn":
        switch {
        case inh.flags&(1<<15) != 0:
            return TypeRadioButton
        case inh.flags&(1<<16) != 0:
            return TypePushButton
        }
        return TypeCheckBox
    case "Ch":
        if inh.flags&(1<<17) != 0 {
            return TypeComboBox
        }
        return TypeListBox
    case "Sig":
        return TypeSignature
    default:
        return TypeTextBox
    }
}
