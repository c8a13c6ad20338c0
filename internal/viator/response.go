package viator

import (
	"github.com/vronhq/vron-gateway/internal/ron"
	"github.com/vronhq/vron-gateway/pkg/xmldoc"
)

// Response status values of the booking dialect.
const (
	statusOK       = "OK"
	statusError    = "ERROR"
	statusRejected = "REJECTED"
)

// ErrorResponse builds the generic Error document used for parse and
// dispatch failures.
func ErrorResponse(message string) string {
	d := xmldoc.New()
	d.CreateRoot("Error")
	d.SetText(d.CreateElement("message"), message)
	return d.Serialize()
}

// BookingErrorResponse builds the error-shape booking response carrying
// an error code, the offending field name(s), and the message text.
func BookingErrorResponse(code, field, message string) string {
	d := xmldoc.New()
	root := d.CreateRoot("BookingResponse")
	status := d.CreateElement("ResponseStatus", root)
	d.SetText(d.CreateElement("Status", status), statusError)
	e := d.CreateElement("Error", status)
	d.SetText(d.CreateElement("ErrorCode", e), code)
	d.SetText(d.CreateElement("ErrorField", e), field)
	d.SetText(d.CreateElement("ErrorMessage", e), message)
	return d.Serialize()
}

// BookingResultResponse builds the response for a completed write
// attempt. A nil result means the host rejected the reservation; the
// downstream message is passed through verbatim. Otherwise the response
// carries the host's confirmation data.
func BookingResultResponse(externalReference string, result ron.WriteResult, downstreamMessage string) string {
	d := xmldoc.New()
	root := d.CreateRoot("BookingResponse")
	d.SetText(d.CreateElement("ExternalReference", root), externalReference)
	status := d.CreateElement("ResponseStatus", root)

	if result == nil {
		d.SetText(d.CreateElement("Status", status), statusRejected)
		d.SetText(d.CreateElement("RejectionReason", status), downstreamMessage)
		return d.Serialize()
	}

	d.SetText(d.CreateElement("Status", status), statusOK)
	d.SetText(d.CreateElement("BookingReference", root), result.ConfirmationNumber())
	return d.Serialize()
}
