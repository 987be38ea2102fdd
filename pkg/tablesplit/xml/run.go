package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Run represents a run of text with common properties
type Run struct {
	Attrs      []xml.Attr     `xml:"-"`
	Properties *RawXMLElement `xml:"rPr"`
	// Content maintains the order of text and preserved elements (breaks, tabs, drawings)
	Content []RunContent `xml:"-"`
}

// isParagraphContent implements the ParagraphContent interface
func (r *Run) isParagraphContent() {}

// NewTextRun creates a run holding a single text element
func NewTextRun(text string) *Run {
	t := &Text{Content: text}
	if text != strings.TrimSpace(text) {
		t.Space = "preserve"
	}
	return &Run{Content: []RunContent{t}}
}

// UnmarshalXML implements custom XML unmarshaling to preserve unknown elements
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.Attrs = copyAttrs(start.Attr)

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
			switch t.Name.Local {
			case "rPr":
				props, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				r.Properties = props
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &text)
			default:
				raw, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, raw)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "w:r"},
		Attr: qualifiedAttrs(r.Attrs),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := encodeRaw(e, r.Properties); err != nil {
			return err
		}
	}

	for _, content := range r.Content {
		if err := e.EncodeElement(content, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Clone returns a deep copy of the run
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	clone := &Run{Attrs: copyAttrs(r.Attrs), Properties: r.Properties.Clone()}
	for _, content := range r.Content {
		switch c := content.(type) {
		case *Text:
			text := *c
			clone.Content = append(clone.Content, &text)
		case *RawXMLElement:
			clone.Content = append(clone.Content, c.Clone())
		}
	}
	return clone
}

// GetText returns the text content of a run
func (r *Run) GetText() string {
	var sb strings.Builder
	for _, content := range r.Content {
		switch c := content.(type) {
		case *Text:
			sb.WriteString(c.Content)
		case *RawXMLElement:
			sb.WriteString(c.GetText())
		}
	}
	return sb.String()
}

// HasText reports whether the run has at least one w:t element
func (r *Run) HasText() bool {
	for _, content := range r.Content {
		if _, ok := content.(*Text); ok {
			return true
		}
	}
	return false
}

// Bold reports whether w:b is switched on in the run properties
func (r *Run) Bold() bool {
	return IsOn(r.Properties.Child("b"))
}

// Italic reports whether w:i is switched on in the run properties
func (r *Run) Italic() bool {
	return IsOn(r.Properties.Child("i"))
}

// Color returns the w:color value of the run, or "" when unset
func (r *Run) Color() string {
	val, _ := r.Properties.Child("color").Val()
	return val
}

// Text represents text content
type Text struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Content string   `xml:",chardata"`
}

func (t *Text) isRunContent() {}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:t"}}
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "xml:space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}
