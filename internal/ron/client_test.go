package ron

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loginOKResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><string>sess-42</string></value></param></params></methodResponse>`

	pickupsResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><struct>
<member><name>strPickupName</name><value><string>Harbour Hotel Lobby</string></value></member>
<member><name>strPickupKey</name><value><string>PK-001</string></value></member>
</struct></value>
<value><struct>
<member><name>strPickupName</name><value><string>Central Station</string></value></member>
<member><name>strPickupKey</name><value><string>PK-002</string></value></member>
</struct></value>
</data></array></value></param></params></methodResponse>`

	writeOKResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>strCfmNo</name><value><string>CFM-777</string></value></member>
</struct></value></param></params></methodResponse>`
)

func faultResponse(code int, message string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>%d</int></value></member>
<member><name>faultString</name><value><string>%s</string></value></member>
</struct></value></fault></methodResponse>`, code, message)
}

// ronStub answers XML-RPC calls by method name and records requests.
type ronStub struct {
	responses map[string]string
	requests  []recordedCall
}

type recordedCall struct {
	url  string
	body string
}

func (s *ronStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.requests = append(s.requests, recordedCall{url: r.URL.String(), body: string(body)})

		for method, resp := range s.responses {
			if strings.Contains(string(body), "<methodName>"+method+"</methodName>") {
				w.Header().Set("Content-Type", "text/xml")
				fmt.Fprint(w, resp)
				return
			}
		}
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, faultResponse(1, "unknown method"))
	}
}

func newStubClient(t *testing.T, stub *ronStub, hostID string) *Client {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return NewClient(Config{
		URL:      srv.URL + "/?api",
		Username: "agent",
		Password: "secret",
	}, hostID)
}

func TestLogin_Success(t *testing.T) {
	stub := &ronStub{responses: map[string]string{"login": loginOKResponse}}
	client := newStubClient(t, stub, "hotel-17")

	sess, err := client.Login(context.Background(), "reseller-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-42", sess.ID())

	require.Len(t, stub.requests, 1)
	assert.Contains(t, stub.requests[0].body, "agent")
	assert.Contains(t, stub.requests[0].body, "secret")
	assert.Contains(t, stub.requests[0].body, "reseller-1")
	// Login opens a fresh conversation: no session suffix yet.
	assert.NotContains(t, stub.requests[0].url, "sess-42")
}

func TestLogin_Fault(t *testing.T) {
	stub := &ronStub{responses: map[string]string{"login": faultResponse(403, "invalid credentials")}}
	client := newStubClient(t, stub, "hotel-17")

	sess, err := client.Login(context.Background(), "reseller-1")
	require.Error(t, err)
	assert.Nil(t, sess)

	var fault *RemoteFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 403, fault.Code)
	assert.Equal(t, "invalid credentials", fault.Message)
}

func TestLogin_Connectivity(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Config{URL: srv.URL + "/?api", Username: "a", Password: "b"}, "hotel-17")

	_, err := client.Login(context.Background(), "reseller-1")
	require.Error(t, err)

	var conn *ConnectivityError
	require.ErrorAs(t, err, &conn)
	var fault *RemoteFault
	assert.False(t, errors.As(err, &fault), "transport failure must not look like a fault")
}

func TestReadTourPickups(t *testing.T) {
	stub := &ronStub{responses: map[string]string{
		"login":           loginOKResponse,
		"readTourPickups": pickupsResponse,
	}}
	client := newStubClient(t, stub, "hotel-17")

	sess, err := client.Login(context.Background(), "reseller-1")
	require.NoError(t, err)

	pickups, err := sess.ReadTourPickups(context.Background(), "TOUR1", "9", "3")
	require.NoError(t, err)
	require.Len(t, pickups, 2)
	assert.Equal(t, "Harbour Hotel Lobby", pickups[0].Name())
	assert.Equal(t, "PK-001", pickups[0].Key())
	assert.Equal(t, "PK-002", pickups[1].Key())

	// The session id rides on the endpoint after login.
	require.Len(t, stub.requests, 2)
	assert.Contains(t, stub.requests[1].url, "sess-42")
	assert.Contains(t, stub.requests[1].body, "hotel-17")
}

func TestWriteReservation_Success(t *testing.T) {
	stub := &ronStub{responses: map[string]string{
		"login":            loginOKResponse,
		"writeReservation": writeOKResponse,
	}}
	client := newStubClient(t, stub, "hotel-17")

	sess, err := client.Login(context.Background(), "reseller-1")
	require.NoError(t, err)

	result, err := sess.WriteReservation(context.Background(), map[string]string{
		"strCfmNo_Ext": "EXT-1",
		"strTourCode":  "TOUR1",
	})
	require.NoError(t, err)
	assert.Equal(t, "CFM-777", result.ConfirmationNumber())

	last := stub.requests[len(stub.requests)-1]
	assert.Contains(t, last.body, "strPaymentOption")
	assert.Contains(t, last.body, "full-agent")
	assert.Contains(t, last.body, "-1")
}

func TestWriteReservation_FaultTextPreserved(t *testing.T) {
	stub := &ronStub{responses: map[string]string{
		"login":            loginOKResponse,
		"writeReservation": faultResponse(100, "Duplicate booking"),
	}}
	client := newStubClient(t, stub, "hotel-17")

	sess, err := client.Login(context.Background(), "reseller-1")
	require.NoError(t, err)

	result, err := sess.WriteReservation(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.Nil(t, result)

	var fault *RemoteFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "Duplicate booking", fault.Message)
}

func TestParseFaultText(t *testing.T) {
	code, msg := parseFaultText("Fault(403): invalid credentials")
	assert.Equal(t, 403, code)
	assert.Equal(t, "invalid credentials", msg)

	code, msg = parseFaultText("something else entirely")
	assert.Zero(t, code)
	assert.Equal(t, "something else entirely", msg)
}

func TestWriteResult_ConfirmationFallback(t *testing.T) {
	assert.Equal(t, "1234", WriteResult{"intConfirmationNum": int64(1234)}.ConfirmationNumber())
	assert.Equal(t, "ABC", WriteResult{"strCfmNo": "ABC", "intConfirmationNum": int64(9)}.ConfirmationNumber())
	assert.Empty(t, WriteResult{}.ConfirmationNumber())
}
