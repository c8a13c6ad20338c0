// Package gateway orchestrates booking request processing.
//
// One inbound document is parsed, classified, validated, authenticated,
// and driven through the RON conversation to completion before a
// response is produced. Every recoverable failure answers with a
// well-formed dialect document; only downstream connectivity failures
// are returned to the caller as errors, so the transport layer can
// alert on them separately.
//
// # Error Taxonomy
//
//   - structural: parse failure or unrecognized root tag, generic Error shape
//   - VRONERR001: one or more required booking fields blank
//   - VRONERR002: API key absent, malformed, or unknown host identity
//   - VRONERR003: RON rejected the login for the reseller alias
//   - downstream fault: host's own text passed through verbatim
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vronhq/vron-gateway/internal/audit"
	"github.com/vronhq/vron-gateway/internal/ron"
	"github.com/vronhq/vron-gateway/internal/storage"
	"github.com/vronhq/vron-gateway/internal/viator"
	"github.com/vronhq/vron-gateway/pkg/xmldoc"
)

// Partner-facing error codes.
const (
	CodeMalformed     = "VRONERR001"
	CodeInvalidAPIKey = "VRONERR002"
	CodeHostAuth      = "VRONERR003"
)

var errorMessages = map[string]string{
	CodeMalformed:     "Malformed or missing elements",
	CodeInvalidAPIKey: "Invalid API KEY",
	CodeHostAuth:      "RON authentication failed",
}

// messageKind is the closed set of inbound message types.
type messageKind int

const (
	kindBooking messageKind = iota
	kindAvailability
	kindUnrecognized
)

// classify maps a root tag onto a message kind. Substring matching
// tolerates namespace prefixes on the root element.
func classify(rootTag string) messageKind {
	switch {
	case strings.Contains(rootTag, "BookingRequest"):
		return kindBooking
	case strings.Contains(rootTag, "AvailabilityRequest"):
		return kindAvailability
	default:
		return kindUnrecognized
	}
}

// Config holds gateway configuration
type Config struct {
	RON     ron.Config
	BaseKey string
	Keys    storage.KeyStore
	Audit   audit.Recorder
	Logger  *slog.Logger
}

// Gateway is the request orchestrator
type Gateway struct {
	ronCfg  ron.Config
	baseKey string
	keys    storage.KeyStore
	audit   audit.Recorder
	logger  *slog.Logger
}

// New creates a gateway from the given configuration
func New(cfg *Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		ronCfg:  cfg.RON,
		baseKey: cfg.BaseKey,
		keys:    cfg.Keys,
		audit:   cfg.Audit,
		logger:  logger,
	}
}

// Process handles one raw inbound document and returns the response
// document. The error is non-nil only for downstream connectivity
// failures; every other outcome, including all partner-facing errors,
// is a well-formed response.
func (g *Gateway) Process(ctx context.Context, raw []byte) (string, error) {
	log := g.logger.With(slog.String("request_id", uuid.New().String()))

	doc := xmldoc.Parse(raw)
	if !doc.Valid() {
		log.Warn("rejecting unparseable request", slog.String("error", doc.ErrorMessage()))
		return viator.ErrorResponse(doc.ErrorMessage()), nil
	}

	switch classify(doc.RootName()) {
	case kindBooking:
		return g.processBooking(ctx, log, doc)
	case kindAvailability:
		return viator.ErrorResponse("AvailabilityRequest not supported yet"), nil
	default:
		log.Warn("rejecting unsupported request", slog.String("root", doc.RootName()))
		return viator.ErrorResponse("Request not supported - " + doc.RootName()), nil
	}
}

func (g *Gateway) processBooking(ctx context.Context, log *slog.Logger, doc *xmldoc.Document) (string, error) {
	req := viator.ParseBookingRequest(doc)
	log = log.With(slog.String("external_reference", req.ExternalReference))
	g.record(req.ExternalReference, storage.StatusReceived, "")

	if missing := req.Validate(); len(missing) > 0 {
		fieldList := strings.Join(missing, ", ")
		log.Warn("booking request incomplete", slog.String("missing", fieldList))
		g.record(req.ExternalReference, storage.StatusRejected, errorMessages[CodeMalformed]+": "+fieldList)
		return viator.BookingErrorResponse(CodeMalformed, fieldList, errorMessages[CodeMalformed]), nil
	}

	hostID, ok := g.hostIdentity(ctx, req.APIKey)
	if !ok {
		log.Warn("api key rejected")
		g.record(req.ExternalReference, storage.StatusRejected, errorMessages[CodeInvalidAPIKey])
		return viator.BookingErrorResponse(CodeInvalidAPIKey, "ApiKey", errorMessages[CodeInvalidAPIKey]), nil
	}
	log = log.With(slog.String("host_id", hostID))

	client := ron.NewClient(g.ronCfg, hostID)
	sess, err := client.Login(ctx, req.ResellerID)
	if err != nil {
		var conn *ron.ConnectivityError
		if errors.As(err, &conn) {
			log.Error("ron unreachable during login", slog.String("error", conn.Error()))
			g.record(req.ExternalReference, storage.StatusError, conn.Error())
			return "", conn
		}
		log.Warn("ron login rejected", slog.String("reseller_id", req.ResellerID))
		g.record(req.ExternalReference, storage.StatusRejected, errorMessages[CodeHostAuth])
		return viator.BookingErrorResponse(CodeHostAuth, "ResellerId", errorMessages[CodeHostAuth]), nil
	}

	pickups, err := sess.ReadTourPickups(ctx, req.TourCode, req.TourTimeID, req.BasisID)
	if err != nil {
		var conn *ron.ConnectivityError
		if errors.As(err, &conn) {
			log.Error("ron unreachable during pickup lookup", slog.String("error", conn.Error()))
			g.record(req.ExternalReference, storage.StatusError, conn.Error())
			return "", conn
		}
		// A pickup fault is not fatal: the reservation is written
		// without a pickup key.
		log.Warn("pickup lookup failed, continuing without pickup", slog.String("error", err.Error()))
		pickups = nil
	}

	fields := req.ReservationFields(viator.PickupKey(req.PickupPoint, pickups))
	result, err := sess.WriteReservation(ctx, fields)
	if err != nil {
		var conn *ron.ConnectivityError
		if errors.As(err, &conn) {
			log.Error("ron unreachable during write", slog.String("error", conn.Error()))
			g.record(req.ExternalReference, storage.StatusError, conn.Error())
			return "", conn
		}
		var fault *ron.RemoteFault
		if !errors.As(err, &fault) {
			g.record(req.ExternalReference, storage.StatusError, err.Error())
			return "", err
		}
		log.Warn("reservation rejected by host", slog.String("reason", fault.Message))
		g.record(req.ExternalReference, storage.StatusRejected, fault.Message)
		return viator.BookingResultResponse(req.ExternalReference, nil, fault.Message), nil
	}

	log.Info("reservation confirmed", slog.String("confirmation", result.ConfirmationNumber()))
	g.record(req.ExternalReference, storage.StatusConfirmed, "")
	return viator.BookingResultResponse(req.ExternalReference, result, ""), nil
}

// hostIdentity validates the presented API key and derives the host
// identity from it. The configured base key must be a substring of the
// key; the remainder must name an existing authorization record.
func (g *Gateway) hostIdentity(ctx context.Context, apiKey string) (string, bool) {
	if apiKey == "" || !strings.Contains(apiKey, g.baseKey) {
		return "", false
	}
	hostID := strings.ReplaceAll(apiKey, g.baseKey, "")
	if hostID == "" {
		return "", false
	}

	if _, err := g.keys.GetKeyByName(ctx, hostID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.logger.Error("key store lookup failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return hostID, true
}

func (g *Gateway) record(externalReference string, status storage.LogStatus, errorMessage string) {
	if g.audit == nil {
		return
	}
	g.audit.Record(audit.Event{
		ExternalReference: externalReference,
		Status:            status,
		ErrorMessage:      errorMessage,
	})
}
