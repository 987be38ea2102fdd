package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Document represents a Word document structure.
// Only the tables that are direct children of w:body are decoded; every other
// body element is skipped.
type Document struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
	// Namespaces preserves the xmlns:prefix declarations of the root element
	Namespaces []xml.Attr `xml:"-"`
}

// UnmarshalXML implements custom XML unmarshaling to preserve root namespace declarations
func (doc *Document) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	doc.XMLName = start.Name
	doc.Namespaces = namespaceDecls(start.Attr)

	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "body" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var body Body
			if err := d.DecodeElement(&body, &t); err != nil {
				return err
			}
			doc.Body = &body
		case xml.EndElement:
			return nil
		}
	}
}

// Tables returns the top-level tables of the body in document order.
// Each table carries the root namespace declarations so it can be serialized alone.
func (doc *Document) Tables() []*Table {
	if doc.Body == nil {
		return nil
	}
	tables := make([]*Table, 0, len(doc.Body.Tables))
	for _, table := range doc.Body.Tables {
		table.Namespaces = mergeNamespaceDecls(table.Namespaces, doc.Namespaces)
		tables = append(tables, table)
	}
	return tables
}

// Body represents the document body
type Body struct {
	Tables []*Table `xml:"-"`
}

// UnmarshalXML implements custom XML unmarshaling that keeps body-level tables
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "tbl" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var table Table
			if err := d.DecodeElement(&table, &t); err != nil {
				return err
			}
			b.Tables = append(b.Tables, &table)
		case xml.EndElement:
			return nil
		}
	}
}

// ParseDocument parses word/document.xml content
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}

// ParseTable parses the first w:tbl element found in data.
// Namespace declarations made on its ancestors are copied onto the table.
// It returns (nil, nil) when data contains no table.
func ParseTable(data []byte) (*Table, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	// declarations in scope, one entry per open element
	var scopes [][]xml.Attr
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse table xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "tbl" {
				table := &Table{}
				if err := decoder.DecodeElement(table, &t); err != nil {
					return nil, fmt.Errorf("failed to parse table xml: %w", err)
				}
				for i := len(scopes) - 1; i >= 0; i-- {
					table.Namespaces = mergeNamespaceDecls(table.Namespaces, scopes[i])
				}
				return table, nil
			}
			scopes = append(scopes, namespaceDecls(t.Attr))
		case xml.EndElement:
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		}
	}
}

// MarshalTable serializes a table as a standalone w:tbl document fragment.
// An empty indent produces compact output.
func MarshalTable(t *Table, indent string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)
	if indent != "" {
		encoder.Indent("", indent)
	}
	if err := encoder.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to marshal table: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("failed to marshal table: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseTables parses content whose root is either w:document or a table fragment.
// A document yields its top-level tables; anything else yields the first w:tbl found.
func ParseTables(data []byte) ([]*Table, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	if root.Local == "document" {
		doc, err := ParseDocument(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return doc.Tables(), nil
	}

	table, err := ParseTable(data)
	if err != nil || table == nil {
		return nil, err
	}
	return []*Table{table}, nil
}

func rootElement(data []byte) (xml.Name, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return xml.Name{}, fmt.Errorf("failed to read root element: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name, nil
		}
	}
}
