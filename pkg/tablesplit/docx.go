package tablesplit

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

const documentPart = "word/document.xml"

// DocxReader handles reading parts of a DOCX package
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	// Index all parts by name
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[documentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPart)
	}

	return dr, nil
}

// OpenDocx creates a DocxReader from a file path
func OpenDocx(path string) (*DocxReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	dr, err := NewDocxReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	return dr, nil
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// GetDocumentXML retrieves the content of word/document.xml
func (dr *DocxReader) GetDocumentXML() ([]byte, error) {
	return dr.GetPart(documentPart)
}

// ListParts returns the names of all parts in the DOCX, sorted
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// Tables parses word/document.xml and returns its top-level tables
func (dr *DocxReader) Tables() ([]*xml.Table, error) {
	content, err := dr.GetDocumentXML()
	if err != nil {
		return nil, err
	}
	doc, err := xml.ParseDocument(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	return doc.Tables(), nil
}

// LoadTables reads the tables of a file. A .docx file is opened as a package;
// any other file is parsed as XML, either a w:document or a standalone w:tbl.
func LoadTables(path string) ([]*xml.Table, error) {
	log := WithField("path", path)

	if strings.EqualFold(filepath.Ext(path), ".docx") {
		dr, err := OpenDocx(path)
		if err != nil {
			return nil, err
		}
		tables, err := dr.Tables()
		if err != nil {
			return nil, NewDocumentError("parse", path, err)
		}
		log.Debug("loaded %d tables from package", len(tables))
		return tables, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}
	tables, err := xml.ParseTables(content)
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}
	log.Debug("loaded %d tables", len(tables))
	return tables, nil
}

// SelectTable returns the table at a 0-based index
func SelectTable(tables []*xml.Table, index int) (*xml.Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoTable
	}
	if index < 0 || index >= len(tables) {
		return nil, fmt.Errorf("table %d of %d: %w", index, len(tables), ErrTableIndex)
	}
	return tables[index], nil
}
