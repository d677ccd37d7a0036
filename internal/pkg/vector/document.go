package vector

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// document is what one pass over the SVG token stream collects.
type document struct {
	root     xml.StartElement
	elements int
	counts   map[string]int
	paths    []string
	hasTitle bool
	hasDesc  bool
}

func (d *document) attr(name string) (string, bool) {
	for _, a := range d.root.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// parse walks the whole token stream so malformed documents are rejected
// even when the error sits after the root element opened.
func parse(svg []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	doc := &document{counts: map[string]int{}}
	seenRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !seenRoot {
			doc.root = start.Copy()
			seenRoot = true
			continue
		}

		doc.elements++
		doc.counts[start.Name.Local]++
		switch start.Name.Local {
		case "title":
			doc.hasTitle = true
		case "desc":
			doc.hasDesc = true
		case "path":
			for _, a := range start.Attr {
				if a.Name.Local == "d" {
					doc.paths = append(doc.paths, a.Value)
				}
			}
		}
	}

	if !seenRoot {
		return nil, errors.New("no root element")
	}
	return doc, nil
}
