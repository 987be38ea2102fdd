package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Attrs      []xml.Attr     `xml:"-"`
	Properties *RawXMLElement `xml:"pPr"`
	// Content maintains the order of runs and preserved elements (hyperlinks, bookmarks, fields)
	Content []ParagraphContent `xml:"-"`
}

// isBlockContent implements the BlockContent interface
func (p *Paragraph) isBlockContent() {}

// NewTextParagraph creates a paragraph with one run carrying text
func NewTextParagraph(text string) *Paragraph {
	return &Paragraph{Content: []ParagraphContent{NewTextRun(text)}}
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Attrs = copyAttrs(start.Attr)

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
			case "pPr":
				props, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				p.Properties = props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			default:
				raw, err := decodeRaw(d, t)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, raw)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "w:p"},
		Attr: qualifiedAttrs(p.Attrs),
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := encodeRaw(e, p.Properties); err != nil {
			return err
		}
	}

	for _, content := range p.Content {
		if err := e.EncodeElement(content, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Clone returns a deep copy of the paragraph
func (p *Paragraph) Clone() *Paragraph {
	if p == nil {
		return nil
	}
	clone := &Paragraph{Attrs: copyAttrs(p.Attrs), Properties: p.Properties.Clone()}
	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			clone.Content = append(clone.Content, c.Clone())
		case *RawXMLElement:
			clone.Content = append(clone.Content, c.Clone())
		}
	}
	return clone
}

// Runs returns the runs that are direct children of the paragraph
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, content := range p.Content {
		if run, ok := content.(*Run); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

// AllRuns returns the runs of the paragraph in document order, including runs
// nested in preserved elements such as w:hyperlink, w:smartTag or w:ins.
// Nested runs are built from the preserved markup and share nothing with it.
func (p *Paragraph) AllRuns() []*Run {
	var runs []*Run
	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			runs = append(runs, c)
		case *RawXMLElement:
			runs = collectRawRuns(c, runs)
		}
	}
	return runs
}

func collectRawRuns(el *RawXMLElement, runs []*Run) []*Run {
	if el.XMLName.Local == "r" {
		return append(runs, runFromRaw(el))
	}
	for _, child := range el.Children {
		runs = collectRawRuns(child, runs)
	}
	return runs
}

// runFromRaw converts a preserved w:r element into a typed run
func runFromRaw(el *RawXMLElement) *Run {
	run := &Run{Attrs: copyAttrs(el.Attrs)}
	for _, child := range el.Children {
		switch child.XMLName.Local {
		case "rPr":
			run.Properties = child.Clone()
		case "t":
			text := &Text{Content: child.Text}
			if space, ok := child.Attr("space"); ok {
				text.Space = space
			}
			run.Content = append(run.Content, text)
		default:
			run.Content = append(run.Content, child.Clone())
		}
	}
	return run
}

// GetText returns the concatenated text of all runs in a paragraph,
// including runs nested in hyperlinks and other preserved elements
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			sb.WriteString(c.GetText())
		case *RawXMLElement:
			sb.WriteString(c.GetText())
		}
	}
	return sb.String()
}

// Alignment returns the w:jc value, or "" when the paragraph has none
func (p *Paragraph) Alignment() string {
	val, _ := p.Properties.Child("jc").Val()
	return val
}

// MarkRunProperties returns the run properties of the paragraph mark (w:pPr/w:rPr)
func (p *Paragraph) MarkRunProperties() *RawXMLElement {
	return p.Properties.Child("rPr")
}
