package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidDocument(t *testing.T) {
	doc := Parse([]byte(`<BookingRequest><ApiKey>abc</ApiKey></BookingRequest>`))
	require.True(t, doc.Valid())
	assert.Empty(t, doc.ErrorMessage())
	assert.Equal(t, "BookingRequest", doc.RootName())
	assert.Equal(t, "abc", doc.Text("ApiKey"))
}

func TestParse_NamespacedRoot(t *testing.T) {
	doc := Parse([]byte(`<ns:BookingRequest xmlns:ns="urn:partner"><ns:TourCode>T1</ns:TourCode></ns:BookingRequest>`))
	require.True(t, doc.Valid())
	assert.Contains(t, doc.RootName(), "BookingRequest")
}

func TestParse_Invalid(t *testing.T) {
	doc := Parse([]byte(`<Booking`))
	assert.False(t, doc.Valid())
	assert.NotEmpty(t, doc.ErrorMessage())
	assert.Empty(t, doc.RootName())
}

func TestParse_Empty(t *testing.T) {
	doc := Parse(nil)
	assert.False(t, doc.Valid())
	assert.Equal(t, "document has no root element", doc.ErrorMessage())
}

func TestText_AbsentNodeIsEmpty(t *testing.T) {
	doc := Parse([]byte(`<BookingRequest><TourCode>T1</TourCode></BookingRequest>`))
	require.True(t, doc.Valid())
	assert.Equal(t, "T1", doc.Text("TourCode"))
	assert.Empty(t, doc.Text("VoucherNumber"))
}

func TestText_TrimsWhitespace(t *testing.T) {
	doc := Parse([]byte("<BookingRequest><Email>\n  a@b.cd\n</Email></BookingRequest>"))
	require.True(t, doc.Valid())
	assert.Equal(t, "a@b.cd", doc.Text("Email"))
}

func TestBuildAndSerialize(t *testing.T) {
	d := New()
	d.CreateRoot("Error")
	msg := d.CreateElement("message")
	d.SetText(msg, "Request not supported")

	out := d.Serialize()
	require.NotEmpty(t, out)

	reparsed := Parse([]byte(out))
	require.True(t, reparsed.Valid())
	assert.Equal(t, "Error", reparsed.RootName())
	assert.Equal(t, "Request not supported", reparsed.Text("message"))
}

func TestCreateElement_ExplicitParent(t *testing.T) {
	d := New()
	root := d.CreateRoot("Response")
	status := d.CreateElement("Status", root)
	d.SetText(d.CreateElement("Code", status), "OK")

	reparsed := Parse([]byte(d.Serialize()))
	require.True(t, reparsed.Valid())
	assert.Equal(t, "OK", reparsed.Text("Code"))
}
