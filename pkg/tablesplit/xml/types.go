package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// WordNamespace is the main WordprocessingML namespace URI.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// BlockContent represents any content that can appear in a table cell
type BlockContent interface {
	isBlockContent()
}

// ParagraphContent represents any content that can appear in a paragraph
type ParagraphContent interface {
	isParagraphContent()
}

// RunContent represents any content that can appear in a run
type RunContent interface {
	isRunContent()
}

// RawXMLElement represents an element we preserve but don't interpret.
// It keeps the whole subtree so encoding it again yields the same markup.
type RawXMLElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr
	Children []*RawXMLElement
	// Text holds the character data of leaf elements
	Text string
}

func (r *RawXMLElement) isBlockContent()     {}
func (r *RawXMLElement) isParagraphContent() {}
func (r *RawXMLElement) isRunContent()       {}

// NewRawElement creates an empty element in the WordprocessingML namespace
func NewRawElement(local string, attrs ...xml.Attr) *RawXMLElement {
	return &RawXMLElement{
		XMLName: xml.Name{Space: WordNamespace, Local: local},
		Attrs:   attrs,
	}
}

// WordAttr builds a w:-qualified attribute
func WordAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: WordNamespace, Local: local}, Value: value}
}

// UnmarshalXML implements custom XML unmarshaling that keeps the full subtree
func (r *RawXMLElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	el, err := decodeRaw(d, start)
	if err != nil {
		return err
	}
	*r = *el
	return nil
}

// decodeRaw reads the element opened by start up to and including its end tag
func decodeRaw(d *xml.Decoder, start xml.StartElement) (*RawXMLElement, error) {
	el := &RawXMLElement{
		XMLName: start.Name,
		Attrs:   copyAttrs(start.Attr),
	}

	var text strings.Builder
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := decodeRaw(d, t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			el.Text = text.String()
			// Whitespace between child elements is formatting only
			if len(el.Children) > 0 && strings.TrimSpace(el.Text) == "" {
				el.Text = ""
			}
			return el, nil
		}
	}
}

// MarshalXML writes the element back with conventional namespace prefixes
func (r RawXMLElement) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: qualifiedName(r.XMLName)},
		Attr: qualifiedAttrs(r.Attrs),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Text != "" {
		if err := e.EncodeToken(xml.CharData(r.Text)); err != nil {
			return err
		}
	}

	for _, child := range r.Children {
		if err := e.EncodeElement(child, xml.StartElement{Name: child.XMLName}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// encodeRaw writes a preserved element. The encoder rejects an unnamed start
// element before MarshalXML runs, so the decoded name is passed along.
func encodeRaw(e *xml.Encoder, r *RawXMLElement) error {
	return e.EncodeElement(r, xml.StartElement{Name: r.XMLName})
}

// Clone returns a deep copy of the element
func (r *RawXMLElement) Clone() *RawXMLElement {
	if r == nil {
		return nil
	}
	clone := &RawXMLElement{
		XMLName: r.XMLName,
		Attrs:   copyAttrs(r.Attrs),
		Text:    r.Text,
	}
	if len(r.Children) > 0 {
		clone.Children = make([]*RawXMLElement, len(r.Children))
		for i, child := range r.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

// Child returns the first direct child with the given local name
func (r *RawXMLElement) Child(local string) *RawXMLElement {
	if r == nil {
		return nil
	}
	for _, child := range r.Children {
		if child.XMLName.Local == local {
			return child
		}
	}
	return nil
}

// RemoveChildren removes every direct child with one of the given local names
// and reports how many were removed
func (r *RawXMLElement) RemoveChildren(locals ...string) int {
	if r == nil {
		return 0
	}
	kept := r.Children[:0]
	removed := 0
	for _, child := range r.Children {
		if containsString(locals, child.XMLName.Local) {
			removed++
			continue
		}
		kept = append(kept, child)
	}
	for i := len(kept); i < len(r.Children); i++ {
		r.Children[i] = nil
	}
	r.Children = kept
	return removed
}

// Attr returns the value of the attribute with the given local name
func (r *RawXMLElement) Attr(local string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, attr := range r.Attrs {
		if attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Val returns the w:val attribute
func (r *RawXMLElement) Val() (string, bool) {
	return r.Attr("val")
}

// GetText returns the concatenated content of every w:t element in the subtree
func (r *RawXMLElement) GetText() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	r.collectText(&sb)
	return sb.String()
}

func (r *RawXMLElement) collectText(sb *strings.Builder) {
	if r.XMLName.Local == "t" {
		sb.WriteString(r.Text)
		return
	}
	for _, child := range r.Children {
		child.collectText(sb)
	}
}

// IsOn interprets an OOXML on/off property such as w:b or w:i.
// A missing element is off; a present element is on unless its w:val says otherwise.
func IsOn(el *RawXMLElement) bool {
	if el == nil {
		return false
	}
	val, ok := el.Val()
	if !ok {
		return true
	}
	switch strings.ToLower(val) {
	case "false", "0", "off", "none":
		return false
	}
	return true
}

// namespaceToPrefix converts a namespace URI to its conventional prefix
func namespaceToPrefix(uri string) string {
	prefixMap := map[string]string{
		// Core Word namespaces
		WordNamespace: "w",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships": "r",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":          "m",
		"http://www.w3.org/XML/1998/namespace":                                "xml",
		// Drawing namespaces
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
		"http://schemas.microsoft.com/office/drawing/2010/main":                  "a14",
		// VML namespaces
		"urn:schemas-microsoft-com:vml":          "v",
		"urn:schemas-microsoft-com:office:office": "o",
		"urn:schemas-microsoft-com:office:word":  "w10",
		// Markup compatibility namespace
		"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
		// Word processing shapes and groups
		"http://schemas.microsoft.com/office/word/2010/wordprocessingShape": "wps",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup": "wpg",
		// Extended Word namespaces
		"http://schemas.microsoft.com/office/word/2010/wordml":       "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml":       "w15",
		"http://schemas.microsoft.com/office/word/2016/wordml/cid":   "w16cid",
		"http://schemas.microsoft.com/office/word/2018/wordml":       "w16",
		"http://schemas.microsoft.com/office/word/2018/wordml/cex":   "w16cex",
		"http://schemas.microsoft.com/office/word/2015/wordml/symex": "w16se",
		"http://schemas.microsoft.com/office/word/2006/wordml":       "wne",
	}

	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	return ""
}

// qualifiedName renders a decoded name in prefix:local form.
// Names in namespaces we don't know a prefix for lose their namespace.
func qualifiedName(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	}
	if prefix := namespaceToPrefix(name.Space); prefix != "" {
		return prefix + ":" + name.Local
	}
	return name.Local
}

func qualifiedAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, 0, len(attrs))
	for _, attr := range attrs {
		// Default namespace declarations don't apply to prefixed output
		if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			continue
		}
		out = append(out, xml.Attr{Name: xml.Name{Local: qualifiedName(attr.Name)}, Value: attr.Value})
	}
	return out
}

// namespaceDecls returns the xmlns:prefix declarations among attrs in qualified form
func namespaceDecls(attrs []xml.Attr) []xml.Attr {
	var decls []xml.Attr
	for _, attr := range attrs {
		if attr.Name.Space == "xmlns" {
			decls = append(decls, xml.Attr{Name: xml.Name{Local: "xmlns:" + attr.Name.Local}, Value: attr.Value})
		} else if attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:") {
			decls = append(decls, attr)
		}
	}
	return decls
}

// mergeNamespaceDecls adds the declarations from extra whose prefix is not declared yet
func mergeNamespaceDecls(decls []xml.Attr, extra []xml.Attr) []xml.Attr {
	for _, attr := range extra {
		found := false
		for _, existing := range decls {
			if existing.Name.Local == attr.Name.Local {
				found = true
				break
			}
		}
		if !found {
			decls = append(decls, attr)
		}
	}
	return decls
}

func copyAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
