package metadata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/dlages/filescope/filetype"
)

// extractDocument dispatches on the document subtype: PDF gets page
// count and the document-info dictionary, plain text gets line/word/
// character statistics. Other document types carry baseline fields only.
func (e *Extractor) extractDocument(path string, rec Record) {
	switch filetype.Extension(path) {
	case ".pdf":
		if e.caps.PDFDocInfo == nil {
			rec["PDF Data"] = "PDF support not available"
			return
		}
		fields, err := e.caps.PDFDocInfo(path)
		if err != nil {
			rec["PDF Data"] = fmt.Sprintf("Error extracting PDF metadata: %v", err)
			return
		}
		for k, v := range fields {
			rec[k] = v
		}
	case ".txt", ".csv", ".log":
		if err := textStatistics(path, rec); err != nil {
			rec["Text Analysis"] = fmt.Sprintf("Error analyzing text: %v", err)
		}
	}
}

// textStatistics counts lines, words and characters. Lines split exactly
// on \n, words on any whitespace.
func textStatistics(path string, rec Record) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	content := string(data)
	rec["Line Count"] = len(strings.Split(content, "\n"))
	rec["Word Count"] = len(strings.Fields(content))
	rec["Character Count"] = utf8.RuneCountInString(content)
	return nil
}

// readPDFDocInfo reads page count, the Info dictionary (each key
// namespaced) and the format header. The underlying parser panics on
// malformed input, so the panic is converted into an ordinary error
// here.
func readPDFDocInfo(path string) (rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := Record{"Page Count": reader.NumPage()}

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		for _, key := range info.Keys() {
			out["PDF: "+key] = pdfValueString(info.Key(key))
		}
	}

	if version, verr := pdfHeaderVersion(path); verr == nil {
		out["PDF Version"] = version
	}

	return out, nil
}

// pdfHeaderVersion returns the raw "%PDF-1.x" header line.
func pdfHeaderVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "%PDF-") {
		return "", fmt.Errorf("missing PDF header")
	}
	return line, nil
}

func pdfValueString(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	case pdf.Integer:
		return strconv.FormatInt(v.Int64(), 10)
	case pdf.Real:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case pdf.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return v.String()
	}
}
