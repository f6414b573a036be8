package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// readXLSX extracts the selected sheet's rows from a .xlsx workbook.
// Only the parts of the OOXML package this tool needs are parsed: the
// workbook sheet list, its relationships, shared strings, and cell values.
func readXLSX(filePath string, opt Options) (*Table, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := parseWorkbook(zipEntry(zr, "xl/workbook.xml"))
	rels := parseRelationships(zipEntry(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if rel, ok := rels[s.RID]; ok {
					target = sheetPath(rel)
				}
				break
			}
		}
		if target == "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.Name
			}
			return nil, fmt.Errorf("sheet %q not found in %s (available: %s)",
				opt.SheetName, filepath.Base(filePath), strings.Join(names, ", "))
		}
	} else {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		for _, s := range sheets {
			if s.SheetID == idx {
				if rel, ok := rels[s.RID]; ok {
					target = sheetPath(rel)
				}
				break
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", idx)
		}
	}

	sheetXML := zipEntry(zr, target)
	if len(sheetXML) == 0 {
		return nil, fmt.Errorf("worksheet %s not found in %s", target, filepath.Base(filePath))
	}
	shared := parseSharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))

	t := &Table{Name: filepath.Base(filePath)}
	rows := newRowReader(sheetXML, shared)
	header, ok := rows.Next()
	if !ok {
		return t, nil
	}
	t.Header = header
	for {
		row, ok := rows.Next()
		if !ok {
			break
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

type workbookSheet struct {
	Name    string
	SheetID int
	RID     string
}

func parseWorkbook(data []byte) []workbookSheet {
	var sheets []workbookSheet
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return sheets
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s workbookSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = digitsPrefix(a.Value)
			case "id": // r: namespace
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	}
}

func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func parseSharedStrings(data []byte) []string {
	var out []string
	var buf strings.Builder
	inText := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inText {
				buf.Write([]byte(se))
			}
		}
	}
}

// rowReader streams <row> elements from a worksheet, resolving shared-string
// cells as it goes.
type rowReader struct {
	dec    *xml.Decoder
	shared []string
	cur    []string
	width  int
}

func newRowReader(data []byte, shared []string) *rowReader {
	return &rowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *rowReader) Next() ([]string, bool) {
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "row":
				inRow = true
				r.cur = nil
				r.width = 0
			case "c":
				if !inRow {
					continue
				}
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				col := columnIndex(ref)
				if col < 0 {
					// The r attribute is optional; a ref-less cell is the
					// next sequential column.
					col = len(r.cur)
				}
				if col+1 > r.width {
					r.width = col + 1
				}
				if len(r.cur) <= col {
					grown := make([]string, col+1)
					copy(grown, r.cur)
					r.cur = grown
				}
				r.cur[col] = r.cellValue(typ)
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.cur) < r.width {
					grown := make([]string, r.width)
					copy(grown, r.cur)
					r.cur = grown
				}
				return r.cur, true
			}
		}
	}
}

// cellValue consumes tokens until </c>, capturing <v> (or inline <is><t>)
// text and resolving shared-string references.
func (r *rowReader) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					inner, err := r.dec.Token()
					if err != nil {
						break
					}
					if end, ok := inner.(xml.EndElement); ok && (end.Name.Local == "v" || end.Name.Local == "t") {
						break
					}
					if ch, ok := inner.(xml.CharData); ok {
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					if val == "" {
						return ""
					}
					idx := digitsPrefix(val)
					if idx >= 0 && idx < len(r.shared) {
						return r.shared[idx]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex converts a cell reference like "C12" to its 0-based column.
func columnIndex(ref string) int {
	i := 0
	for i < len(ref) && (ref[i]|0x20 >= 'a' && ref[i]|0x20 <= 'z') {
		i++
	}
	idx := 0
	for _, c := range strings.ToUpper(ref[:i]) {
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

func digitsPrefix(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
	}
	return nil
}

// sheetPath normalizes a relationship target into a ZIP entry path.
// Targets may carry a leading slash or omit the xl/ prefix.
func sheetPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
