package xmldoc

import (
	"strings"

	"github.com/beevik/etree"
)

// Document wraps an etree document with a validity flag for inbound
// parsing and incremental element creation for outbound construction.
type Document struct {
	doc      *etree.Document
	valid    bool
	errMsg   string
	lastRoot *etree.Element
}

// New returns an empty document for outbound construction.
func New() *Document {
	return &Document{doc: etree.NewDocument(), valid: true}
}

// Parse reads an inbound payload. Parse never fails: a malformed
// payload yields a Document with Valid() == false and the parser's
// message available via ErrorMessage().
func Parse(raw []byte) *Document {
	d := &Document{doc: etree.NewDocument()}
	d.doc.ReadSettings.Permissive = true
	if err := d.doc.ReadFromBytes(raw); err != nil {
		d.errMsg = err.Error()
		return d
	}
	if d.doc.Root() == nil {
		d.errMsg = "document has no root element"
		return d
	}
	d.valid = true
	return d
}

// Valid reports whether the last parse produced a usable document.
func (d *Document) Valid() bool {
	return d.valid
}

// ErrorMessage returns the parser's message for an invalid document.
func (d *Document) ErrorMessage() string {
	return d.errMsg
}

// RootName returns the qualified tag name of the document root, or the
// empty string when there is none. Callers dispatch on this with a
// substring match so namespace prefixes are tolerated.
func (d *Document) RootName() string {
	root := d.doc.Root()
	if root == nil {
		return ""
	}
	return root.FullTag()
}

// CreateRoot creates and remembers a new root element. Subsequent
// CreateElement calls without an explicit parent attach to it.
func (d *Document) CreateRoot(name string) *etree.Element {
	el := d.doc.CreateElement(name)
	d.lastRoot = el
	return el
}

// CreateElement creates a child element under parent, or under the most
// recently created root when parent is omitted.
func (d *Document) CreateElement(name string, parent ...*etree.Element) *etree.Element {
	p := d.lastRoot
	if len(parent) > 0 && parent[0] != nil {
		p = parent[0]
	}
	if p == nil {
		return d.CreateRoot(name)
	}
	return p.CreateElement(name)
}

// SetText sets the text content of an element.
func (d *Document) SetText(el *etree.Element, text string) {
	if el != nil {
		el.SetText(text)
	}
}

// Text returns the trimmed text of the first element anywhere in the
// document with the given local name, or "" when no such element
// exists or it is empty.
func (d *Document) Text(name string) string {
	el := d.doc.FindElement("//" + name)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// Serialize renders the document to an XML string. Call only after at
// least a root element has been created.
func (d *Document) Serialize() string {
	d.doc.Indent(2)
	out, err := d.doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}
