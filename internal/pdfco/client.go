package pdfco

import (
    "bytes"
    "context"
    "encoding/json"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/apperr"
    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/pdf"
)

const (
    DefaultBaseURL = "https://api.pdf.co/v1"
    service        = "pdf.co"
)

// Client calls the PDF.co field-info, text conversion and edit APIs. Every
// call runs synchronously on the PDF.co side (async:false) and is never retried.
type Client struct {
    http    *http.Client
    baseURL string
    apiKey  string
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
    base := strings.TrimRight(baseURL, "/")
    if base == "" { base = DefaultBaseURL }
    return &Client{http: &http.Client{Timeout: timeout}, baseURL: base, apiKey: apiKey}
}

type urlRequest struct {
    URL   string `json:"url"`
    Async bool   `json:"async"`
}

// envelope carries the error flag PDF.co sets on failed jobs.
type envelope struct {
    Error   bool   `json:"error"`
    Status  any    `json:"status"`
    Message string `json:"message"`
}

type fieldsResponse struct {
    envelope
    Info struct {
        FieldsInfo struct {
            Fields []pdf.FieldDescriptor `json:"Fields"`
        } `json:"FieldsInfo"`
    } `json:"info"`
}

// FetchFields returns the AcroForm field descriptors of the PDF at fileURL.
func (c *Client) FetchFields(ctx context.Context, fileURL string) ([]pdf.FieldDescriptor, error) {
    var r fieldsResponse
    if err := c.post(ctx, "fields", "/pdf/info/fields", urlRequest{URL: fileURL}, &r); err != nil {
        return nil, err
    }
    fields := r.Info.FieldsInfo.Fields
    log.Debug().Str("url", fileURL).Int("fields", len(fields)).Msg("pdf.co fields fetched")
    return fields, nil
}

type textResponse struct {
    envelope
    Text string `json:"text"`
    Body string `json:"body"`
    URL  string `json:"url"`
}

// ConvertToText returns the plain text of the PDF at fileURL.
func (c *Client) ConvertToText(ctx context.Context, fileURL string) (string, error) {
    var r textResponse
    if err := c.post(ctx, "text", "/pdf/convert/to/text", urlRequest{URL: fileURL}, &r); err != nil {
        return "", err
    }
    if r.Text == "" { return r.Body, nil }
    return r.Text, nil
}

// EditField sets one form field by name. Checkbox states are sent as "X" or "".
type EditField struct {
    FieldName string `json:"fieldName"`
    Text      string `json:"text"`
    Pages     string `json:"pages,omitempty"`
}

type editRequest struct {
    URL    string      `json:"url"`
    Fields []EditField `json:"fields"`
    Name   string      `json:"name,omitempty"`
    Async  bool        `json:"async"`
}

type EditResult struct {
    URL     string `json:"url"`
    Status  any    `json:"status"`
    Error   bool   `json:"error"`
    Message string `json:"message"`
}

// EditAdd fills fields of the PDF at fileURL and returns the URL of the result.
func (c *Client) EditAdd(ctx context.Context, fileURL, outputName string, fields []EditField) (*EditResult, error) {
    var r EditResult
    req := editRequest{URL: fileURL, Fields: fields, Name: outputName}
    if err := c.post(ctx, "edit", "/pdf/edit/add", req, &r); err != nil {
        return nil, err
    }
    if r.Error {
        return nil, apperr.Remote(service, 0, "%s", fallback(r.Message, "edit failed"))
    }
    if r.URL == "" {
        return nil, apperr.Remote(service, 0, "edit returned no url")
    }
    return &r, nil
}

// Ping reports whether an API key is configured. PDF.co has no free health endpoint.
func (c *Client) Ping(context.Context) error {
    if c.apiKey == "" { return apperr.Remote(service, 0, "missing PDF_CO_TOKEN") }
    return nil
}

func (c *Client) post(ctx context.Context, op, path string, payload, out any) (err error) {
    start := time.Now()
    defer func() { metrics.ObserveProvider(service, op, metrics.Result(err), time.Since(start)) }()

    if c.apiKey == "" {
        return apperr.Remote(service, 0, "missing PDF_CO_TOKEN")
    }
    body, err := json.Marshal(payload)
    if err != nil { return err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
    if err != nil { return err }
    req.Header.Set("Accept", "application/json")
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("x-api-key", c.apiKey)

    resp, err := c.http.Do(req)
    if err != nil { return apperr.Remote(service, 0, "%v", err) }
    defer resp.Body.Close()

    raw, err := io.ReadAll(resp.Body)
    if err != nil { return apperr.Remote(service, resp.StatusCode, "read body: %v", err) }
    if resp.StatusCode < 200 || resp.StatusCode >= 300 {
        var env envelope
        _ = json.Unmarshal(raw, &env)
        return apperr.Remote(service, resp.StatusCode, "%s", fallback(env.Message, http.StatusText(resp.StatusCode)))
    }

    var env envelope
    if err := json.Unmarshal(raw, &env); err == nil && env.Error {
        return apperr.Remote(service, resp.StatusCode, "%s", fallback(env.Message, "request failed"))
    }
    if err := json.Unmarshal(raw, out); err != nil {
        return apperr.Remote(service, resp.StatusCode, "decode response: %v", err)
    }
    return nil
}

func fallback(s, def string) string {
    if strings.TrimSpace(s) == "" { return def }
    return s
}
