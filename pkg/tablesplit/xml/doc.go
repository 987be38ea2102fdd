// Package xml provides the WordprocessingML table model used by tablesplit.
//
// The package is organized by element type:
//
//   - types.go: content interfaces, RawXMLElement and namespace helpers
//   - document.go: Document and Body, table parsing and serialization
//   - table.go: Table, TableGrid, TableRow and TableCell
//   - paragraph.go: Paragraph
//   - run.go: Run and Text
//
// # Key Concepts
//
// Only the structure the splitter works on is typed: w:tbl, w:tr, w:tc, w:p,
// w:r and w:t. Property blocks (w:tblPr, w:trPr, w:tcPr, w:pPr, w:rPr) and every
// other element are kept as RawXMLElement trees, so decoding and encoding a
// table does not lose markup the model does not understand.
//
// Elements are written with conventional prefixes (w:, w14:, mc: ...) rather
// than Go's generated namespace prefixes, and a serialized table declares the
// namespaces it was parsed with so it can stand alone.
package xml
