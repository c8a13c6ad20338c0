// Package viator adapts the distribution partner's booking dialect.
//
// It extracts booking fields from a parsed inbound document, validates
// them in a single pass that enumerates every blank field, resolves
// pickup selection keys from RON lookup results, and builds the
// outbound response documents of the dialect.
package viator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vronhq/vron-gateway/internal/ron"
	"github.com/vronhq/vron-gateway/pkg/xmldoc"
)

// BookingRequest is the in-memory projection of an inbound booking.
// The viator tag is the dialect element name; validation errors report
// these names back to the partner.
type BookingRequest struct {
	APIKey            string `viator:"ApiKey" validate:"required"`
	ResellerID        string `viator:"ResellerId" validate:"required"`
	ExternalReference string `viator:"ExternalReference" validate:"required"`
	VoucherNumber     string `viator:"VoucherNumber" validate:"required"`
	TourCode          string `viator:"TourCode" validate:"required"`
	BasisID           string `viator:"BasisId" validate:"required"`
	SubBasisID        string `viator:"SubBasisId" validate:"required"`
	TourDate          string `viator:"TourDate" validate:"required"`
	TourTimeID        string `viator:"TourTimeId" validate:"required"`
	FirstName         string `viator:"FirstName" validate:"required"`
	LastName          string `viator:"LastName" validate:"required"`
	Email             string `viator:"Email" validate:"required"`
	Mobile            string `viator:"Mobile" validate:"required"`
	PaxAdults         string `viator:"PaxAdults" validate:"required"`
	PaxInfants        string `viator:"PaxInfants" validate:"required"`
	PaxChildren       string `viator:"PaxChildren" validate:"required"`
	PaxFOC            string `viator:"PaxFOC" validate:"required"`
	PaxUdef1          string `viator:"PaxUdef1" validate:"required"`
	PickupPoint       string `viator:"PickupPoint" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("viator")
	})
	return v
}

// ParseBookingRequest extracts every booking field from the inbound
// document. Absent elements read as empty strings so that Validate can
// report all of them together.
func ParseBookingRequest(doc *xmldoc.Document) *BookingRequest {
	return &BookingRequest{
		APIKey:            doc.Text("ApiKey"),
		ResellerID:        doc.Text("ResellerId"),
		ExternalReference: doc.Text("ExternalReference"),
		VoucherNumber:     doc.Text("VoucherNumber"),
		TourCode:          doc.Text("TourCode"),
		BasisID:           doc.Text("BasisId"),
		SubBasisID:        doc.Text("SubBasisId"),
		TourDate:          doc.Text("TourDate"),
		TourTimeID:        doc.Text("TourTimeId"),
		FirstName:         doc.Text("FirstName"),
		LastName:          doc.Text("LastName"),
		Email:             doc.Text("Email"),
		Mobile:            doc.Text("Mobile"),
		PaxAdults:         doc.Text("PaxAdults"),
		PaxInfants:        doc.Text("PaxInfants"),
		PaxChildren:       doc.Text("PaxChildren"),
		PaxFOC:            doc.Text("PaxFOC"),
		PaxUdef1:          doc.Text("PaxUdef1"),
		PickupPoint:       doc.Text("PickupPoint"),
	}
}

// Validate returns the dialect names of every blank field, in document
// order, or nil when the request is complete.
func (r *BookingRequest) Validate() []string {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var missing []string
	for _, fe := range err.(validator.ValidationErrors) {
		missing = append(missing, fe.Field())
	}
	return missing
}

// PickupKey resolves the opaque pickup selection key from a lookup
// result. The option whose pickup name contains the requested point
// wins; with no match and exactly one option, that option is taken;
// otherwise the key is empty and the reservation is written without a
// pickup.
func PickupKey(requestedPoint string, pickups []ron.Pickup) string {
	want := strings.ToLower(strings.TrimSpace(requestedPoint))
	if want != "" {
		for _, p := range pickups {
			if strings.Contains(strings.ToLower(p.Name()), want) {
				return p.Key()
			}
		}
	}
	if len(pickups) == 1 {
		return pickups[0].Key()
	}
	return ""
}

// ReservationFields maps the booking onto the field names of the RON
// writeReservation call.
func (r *BookingRequest) ReservationFields(pickupKey string) map[string]string {
	return map[string]string{
		"strCfmNo_Ext":      r.ExternalReference,
		"strTourCode":       r.TourCode,
		"strVoucherNo":      r.VoucherNumber,
		"intBasisID":        r.BasisID,
		"intSubBasisID":     r.SubBasisID,
		"dteTourDate":       r.TourDate,
		"intTourTimeID":     r.TourTimeID,
		"strPaxFirstName":   r.FirstName,
		"strPaxLastName":    r.LastName,
		"strPaxEmail":       r.Email,
		"strPaxMobile":      r.Mobile,
		"intNoPax_Adults":   r.PaxAdults,
		"intNoPax_Infant":   r.PaxInfants,
		"intNoPax_Child":    r.PaxChildren,
		"intNoPax_FOC":      r.PaxFOC,
		"intNoPax_UDef1":    r.PaxUdef1,
		"strPickupKey":      pickupKey,
		"strGeneralComment": "Booked via distribution partner",
	}
}
