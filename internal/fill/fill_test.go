package fill

import (
    "bytes"
    "context"
    "errors"
    "testing"

    "github.com/golang/mock/gomock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/pdfco"
    "github.com/local/vibedoc/internal/repository/mock"
    "github.com/local/vibedoc/internal/storage"
)

// fakeEngine records the values it is asked to write and echoes them back as the "PDF".
type fakeEngine struct {
    fields   []pdf.FieldDescriptor
    written  [][]pdf.FieldValue
    flatten  []bool
    rejected []string
    err      error
}

func (e *fakeEngine) Fields([]byte) ([]pdf.FieldDescriptor, error) { return e.fields, nil }

func (e *fakeEngine) Fill(template []byte, values []pdf.FieldValue, flatten bool) ([]byte, []string, error) {
    if e.err != nil { return nil, nil, e.err }
    e.written = append(e.written, values)
    e.flatten = append(e.flatten, flatten)
    return append([]byte("filled:"), template...), e.rejected, nil
}

var templateFields = []pdf.FieldDescriptor{
    {FieldName: "first_name", Type: pdf.TypeTextBox},
    {FieldName: "has_allergies", Type: pdf.TypeCheckBox},
    {FieldName: "smoker", Type: pdf.TypeCheckBox},
    {FieldName: "sig", Type: pdf.TypeSignature},
}

func inputsFixture() []models.Input {
    return []models.Input{
        {ID: 1, PdfElementID: "first_name", Type: models.InputTypeInput, Value: models.TextValue("Jane")},
        {ID: 2, PdfElementID: "has_allergies", Type: models.InputTypeCheckbox, Value: models.CheckboxValue(true)},
        {ID: 3, PdfElementID: "smoker", Type: models.InputTypeCheckbox},
        {ID: 4, PdfElementID: "no_such_field", Type: models.InputTypeInput, Value: models.TextValue("x")},
        {ID: 5, PdfElementID: "sig", Type: models.InputTypeInput, Value: models.TextValue("Jane")},
    }
}

func storeWith(t *testing.T, key string, data []byte) storage.Store {
    t.Helper()
    s := storage.NewMemoryStore()
    require.NoError(t, s.Put(context.Background(), key, "application/pdf", bytes.NewReader(data), int64(len(data))))
    return s
}

func TestLocalFillSkipsUnknownFields(t *testing.T) {
    eng := &fakeEngine{fields: templateFields}
    l := NewLocal(storeWith(t, "tpl.pdf", []byte("%PDF")), eng)

    out, rep, err := l.Fill(context.Background(), "tpl.pdf", inputsFixture(), true)
    require.NoError(t, err)
    assert.Equal(t, []byte("filled:%PDF"), out)
    assert.Equal(t, 5, rep.Supplied)
    assert.Equal(t, 3, rep.Applied)
    assert.Equal(t, 2, rep.Skipped)
    assert.LessOrEqual(t, rep.Applied, rep.Supplied)
    assert.Equal(t, []string{"no_such_field", "sig"}, rep.Unknown)

    require.Len(t, eng.written, 1)
    assert.Equal(t, []pdf.FieldValue{
        {Name: "first_name", Type: pdf.TypeTextBox, Text: "Jane"},
        {Name: "has_allergies", Type: pdf.TypeCheckBox, Checked: true},
        {Name: "smoker", Type: pdf.TypeCheckBox, Checked: false},
    }, eng.written[0])
    assert.Equal(t, []bool{true}, eng.flatten)
}

func TestLocalFillIsRepeatable(t *testing.T) {
    eng := &fakeEngine{fields: templateFields}
    l := NewLocal(storeWith(t, "tpl.pdf", []byte("%PDF")), eng)

    _, _, err := l.Fill(context.Background(), "tpl.pdf", inputsFixture(), false)
    require.NoError(t, err)
    _, _, err = l.Fill(context.Background(), "tpl.pdf", inputsFixture(), false)
    require.NoError(t, err)
    require.Len(t, eng.written, 2)
    assert.Equal(t, eng.written[0], eng.written[1])
}

func TestLocalFillLastInputWins(t *testing.T) {
    eng := &fakeEngine{fields: templateFields}
    l := NewLocal(storage.NewMemoryStore(), eng)
    _, rep, err := l.FillBytes([]byte("%PDF"), []models.Input{
        {PdfElementID: "first_name", Value: models.TextValue("Ann")},
        {PdfElementID: "first_name", Value: models.TextValue("Jane")},
    }, false)
    require.NoError(t, err)
    assert.Equal(t, 1, rep.Applied)
    assert.Equal(t, 1, rep.Skipped)
    assert.Equal(t, "Jane", eng.written[0][0].Text)
}

func TestLocalFillCountsRejectedValues(t *testing.T) {
    eng := &fakeEngine{fields: templateFields, rejected: []string{"has_allergies"}}
    l := NewLocal(storage.NewMemoryStore(), eng)
    _, rep, err := l.FillBytes([]byte("%PDF"), inputsFixture()[:2], false)
    require.NoError(t, err)
    assert.Equal(t, 2, rep.Supplied)
    assert.Equal(t, 1, rep.Applied)
    assert.Equal(t, 1, rep.Skipped)
    assert.Equal(t, []string{"has_allergies"}, rep.Rejected)
}

func TestLocalFillMissingTemplate(t *testing.T) {
    l := NewLocal(storage.NewMemoryStore(), &fakeEngine{})
    _, _, err := l.Fill(context.Background(), "missing.pdf", nil, false)
    require.Error(t, err)
}

func TestLocalFillEngineError(t *testing.T) {
    eng := &fakeEngine{fields: templateFields, err: errors.New("broken xref")}
    l := NewLocal(storage.NewMemoryStore(), eng)
    _, _, err := l.FillBytes([]byte("%PDF"), inputsFixture(), false)
    assert.EqualError(t, err, "broken xref")
}

type fakeEditAPI struct {
    url    string
    fields []pdfco.EditField
    source string
    err    error
}

func (f *fakeEditAPI) EditAdd(_ context.Context, fileURL, _ string, fields []pdfco.EditField) (*pdfco.EditResult, error) {
    f.source, f.fields = fileURL, fields
    if f.err != nil { return nil, f.err }
    return &pdfco.EditResult{URL: f.url}, nil
}

func TestRemoteFillMapsCheckboxes(t *testing.T) {
    api := &fakeEditAPI{url: "https://pdf-temp-files.s3.amazonaws.com/out.pdf"}
    url, err := NewRemote(api).Fill(context.Background(), "https://uploadthing.com/f/tpl.pdf", "", inputsFixture()[:3])
    require.NoError(t, err)
    assert.Equal(t, api.url, url)
    assert.Equal(t, []pdfco.EditField{
        {FieldName: "first_name", Text: "Jane"},
        {FieldName: "has_allergies", Text: "X"},
        {FieldName: "smoker", Text: ""},
    }, api.fields)
}

func TestServiceFillForm(t *testing.T) {
    ctrl := gomock.NewController(t)
    forms := mock.NewMockFormRepo(ctrl)
    forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(42)).Return(&models.Form{
        ID: 42, CloudName: "tpl.pdf", FileName: "intake.pdf", Inputs: inputsFixture(),
    }, nil).Times(2)

    eng := &fakeEngine{fields: templateFields}
    api := &fakeEditAPI{url: "https://files.example.com/out.pdf"}
    svc := NewService(forms, NewLocal(storeWith(t, "tpl.pdf", []byte("%PDF")), eng), NewRemote(api), "https://uploadthing.com")

    res, err := svc.FillForm(context.Background(), 42, StrategyLocal, false)
    require.NoError(t, err)
    assert.Equal(t, "filled-intake.pdf", res.FileName)
    assert.NotEmpty(t, res.PDF)
    assert.Equal(t, 3, res.Report.Applied)

    res, err = svc.FillForm(context.Background(), 42, StrategyRemote, false)
    require.NoError(t, err)
    assert.Equal(t, "https://files.example.com/out.pdf", res.DownloadURL)
    assert.Equal(t, "https://uploadthing.com/f/tpl.pdf", api.source)
}

func TestServiceFillFormRemoteError(t *testing.T) {
    ctrl := gomock.NewController(t)
    forms := mock.NewMockFormRepo(ctrl)
    forms.EXPECT().GetFormWithInputs(gomock.Any(), uint(1)).Return(&models.Form{ID: 1, CloudName: "a.pdf"}, nil)
    api := &fakeEditAPI{err: apperr.Remote("pdf.co", 0, "Not enough credits")}
    svc := NewService(forms, nil, NewRemote(api), "https://uploadthing.com")

    _, err := svc.FillForm(context.Background(), 1, StrategyRemote, false)
    assert.True(t, apperr.IsRemote(err))
}

func TestParseStrategy(t *testing.T) {
    s, err := ParseStrategy("")
    require.NoError(t, err)
    assert.Equal(t, StrategyLocal, s)
    s, err = ParseStrategy(" Remote ")
    require.NoError(t, err)
    assert.Equal(t, StrategyRemote, s)
    _, err = ParseStrategy("carrier-pigeon")
    assert.True(t, apperr.IsValidation(err))
}

func TestFillURLRequiresSource(t *testing.T) {
    svc := NewService(nil, nil, NewRemote(&fakeEditAPI{}), "")
    _, err := svc.FillURL(context.Background(), " ", nil)
    assert.True(t, apperr.IsValidation(err))
}
