// Package ron is the XML-RPC client for the RON reservation host.
//
// A booking conversation is login, an optional pickup lookup, and a
// reservation write. Login yields a [Session] carrying the opaque
// session identifier the host expects appended to the endpoint URL of
// every subsequent call in that conversation. Sessions live for one
// orchestrated flow and are discarded; nothing persists across
// top-level requests.
//
// Every call resolves to one of three outcomes: the decoded result, a
// [*RemoteFault] for an application-level rejection, or a
// [*ConnectivityError] for a transport failure. Callers match with
// errors.As and must treat the two error kinds differently.
package ron

import (
	"context"
	"errors"
	"net/rpc"
	"strconv"
	"strings"

	"github.com/kolo/xmlrpc"
)

// Config holds RON connection settings
type Config struct {
	// URL is the XML-RPC endpoint, e.g. "https://ron.example.com/?api".
	URL      string
	Username string
	Password string
}

// Client issues calls against one RON host on behalf of one host
// identity. It is created per request; the host identity comes from
// the validated partner API key.
type Client struct {
	cfg    Config
	hostID string
}

// NewClient creates a client scoped to the given host identity
func NewClient(cfg Config, hostID string) *Client {
	return &Client{cfg: cfg, hostID: hostID}
}

// HostID returns the host identity this client is scoped to
func (c *Client) HostID() string {
	return c.hostID
}

// endpoint returns the configured URL, suffixed with the session
// identifier when reconnecting mid-conversation.
func (c *Client) endpoint(sessionID string) string {
	if sessionID == "" {
		return c.cfg.URL
	}
	return c.cfg.URL + "&" + sessionID
}

// call performs one XML-RPC invocation and classifies the outcome.
// Client construction never fails observably; transport errors surface
// when the call is attempted.
func (c *Client) call(ctx context.Context, sessionID, method string, args []any, reply any) error {
	if err := ctx.Err(); err != nil {
		return &ConnectivityError{Op: method, Err: err}
	}

	xc, err := xmlrpc.NewClient(c.endpoint(sessionID), nil)
	if err != nil {
		return &ConnectivityError{Op: method, Err: err}
	}
	defer xc.Close()

	if err := xc.Call(method, args, reply); err != nil {
		return classify(method, err)
	}
	return nil
}

// classify separates application faults from transport failures. A
// fault surfaces either as a typed FaultError or, through the net/rpc
// response path, as an rpc.ServerError carrying the fault's text.
func classify(method string, err error) error {
	var fault xmlrpc.FaultError
	if errors.As(err, &fault) {
		return &RemoteFault{Code: fault.Code, Message: fault.String}
	}
	var serverErr rpc.ServerError
	if errors.As(err, &serverErr) {
		code, message := parseFaultText(string(serverErr))
		return &RemoteFault{Code: code, Message: message}
	}
	return &ConnectivityError{Op: method, Err: err}
}

// parseFaultText recovers code and message from the "Fault(N): text"
// rendering of FaultError. Unrecognized text is kept whole.
func parseFaultText(s string) (int, string) {
	rest, ok := strings.CutPrefix(s, "Fault(")
	if !ok {
		return 0, s
	}
	codeStr, message, ok := strings.Cut(rest, "): ")
	if !ok {
		return 0, s
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return 0, s
	}
	return code, message
}

// Login authenticates against the RON host with the configured
// credentials and the given reseller alias. On success it returns the
// session for the rest of the conversation; a host-side rejection is a
// *RemoteFault and leaves no session behind.
func (c *Client) Login(ctx context.Context, resellerID string) (*Session, error) {
	var sessionID string
	args := []any{c.cfg.Username, c.cfg.Password, resellerID}
	if err := c.call(ctx, "", "login", args, &sessionID); err != nil {
		return nil, err
	}
	return &Session{client: c, id: sessionID}, nil
}

// Session is an authenticated RON conversation
type Session struct {
	client *Client
	id     string
}

// ID returns the opaque session identifier
func (s *Session) ID() string {
	return s.id
}

// Pickup is one entry of a tour pickup lookup result
type Pickup map[string]any

// Name returns the pickup location display name
func (p Pickup) Name() string {
	return stringField(p, "strPickupName")
}

// Key returns the opaque pickup selection key
func (p Pickup) Key() string {
	return stringField(p, "strPickupKey")
}

// ReadTourPickups returns the pickup locations and times for the given
// tour, time and basis combination, scoped to the client's host
// identity. The remote result list is returned verbatim.
func (s *Session) ReadTourPickups(ctx context.Context, tourCode, tourTimeID, basisID string) ([]Pickup, error) {
	var pickups []Pickup
	args := []any{s.client.hostID, tourCode, tourTimeID, basisID}
	if err := s.client.call(ctx, s.id, "readTourPickups", args, &pickups); err != nil {
		return nil, err
	}
	return pickups, nil
}

// WriteResult is the extended information structure returned by the
// host for a written reservation.
type WriteResult map[string]any

// ConfirmationNumber returns the host-assigned booking confirmation
func (r WriteResult) ConfirmationNumber() string {
	if v := stringField(r, "strCfmNo"); v != "" {
		return v
	}
	return stringField(r, "intConfirmationNum")
}

// WriteReservation writes a reservation on the host. The second remote
// parameter is a fixed placeholder identifier and the payment option
// mapping is constant; both come from the host API contract.
func (s *Session) WriteReservation(ctx context.Context, fields map[string]string) (WriteResult, error) {
	var result WriteResult
	args := []any{
		s.client.hostID,
		-1,
		fields,
		map[string]string{"strPaymentOption": "full-agent"},
		map[string]string{},
	}
	if err := s.client.call(ctx, s.id, "writeReservation", args, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
