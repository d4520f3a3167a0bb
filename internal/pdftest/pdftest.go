// Package pdftest builds small AcroForm PDFs for tests.
package pdftest

import (
    "bytes"
    "fmt"
)

// FormPDF assembles a one-page PDF with three AcroForm fields:
// first_name (text, tooltip "First name", value "Ann"), has_allergies
// (unchecked checkbox with Yes/Off appearances) and address.city (text
// widget below a text parent).
func FormPDF() []byte {
    return Build([]string{
        "<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R 7 0 R] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv 6 0 R >> >> >> >>",
        "<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
        "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [4 0 R 5 0 R 8 0 R] /Resources << /Font << /Helv 6 0 R >> >> >>",
        "<< /Type /Annot /Subtype /Widget /FT /Tx /T (first_name) /TU (First name) /Rect [50 700 250 720] /P 3 0 R /DA (/Helv 12 Tf 0 g) /V (Ann) >>",
        "<< /Type /Annot /Subtype /Widget /FT /Btn /T (has_allergies) /Rect [50 650 64 664] /P 3 0 R /V /Off /AS /Off /AP << /N << /Yes 9 0 R /Off 10 0 R >> >> >>",
        "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
        "<< /T (address) /FT /Tx /DA (/Helv 12 Tf 0 g) /Kids [8 0 R] >>",
        "<< /Type /Annot /Subtype /Widget /T (city) /Parent 7 0 R /Rect [300 600 400 620] /P 3 0 R /DA (/Helv 12 Tf 0 g) >>",
        "<< /Type /XObject /Subtype /Form /BBox [0 0 14 14] /Length 14 >>\nstream\n0 0 14 14 re f\nendstream",
        "<< /Type /XObject /Subtype /Form /BBox [0 0 14 14] /Length 0 >>\nstream\n\nendstream",
    })
}

// Build writes objects as 1..n with a classic xref table. Object 1 must be the catalog.
func Build(objects []string) []byte {
    var buf bytes.Buffer
    buf.WriteString("%PDF-1.7\n")
    offsets := make([]int, len(objects))
    for i, body := range objects {
        offsets[i] = buf.Len()
        fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
    }
    xref := buf.Len()
    fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
    buf.WriteString("0000000000 65535 f \n")
    for _, off := range offsets {
        fmt.Fprintf(&buf, "%010d 00000 n \n", off)
    }
    fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
    return buf.Bytes()
}
