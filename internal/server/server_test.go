package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vronhq/vron-gateway/internal/gateway"
	"github.com/vronhq/vron-gateway/internal/ron"
	"github.com/vronhq/vron-gateway/internal/storage"
	"github.com/vronhq/vron-gateway/internal/storage/memory"
)

func newTestServer(t *testing.T, ronURL string) *Server {
	t.Helper()

	keys := memory.NewStore()
	require.NoError(t, keys.CreateKey(context.Background(), &storage.Key{Name: "hotel-17"}))

	gw := gateway.New(&gateway.Config{
		RON:     ron.Config{URL: ronURL, Username: "agent", Password: "secret"},
		BaseKey: "vron-",
		Keys:    keys,
	})
	return New(&Config{Port: 0, BasePath: "/api/booking"}, gw, nil)
}

func TestHandleBooking_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0/?api")

	req := httptest.NewRequest(http.MethodGet, "/api/booking", nil)
	rr := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleBooking_MalformedXMLStillAnswers200(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0/?api")

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader("<Booking"))
	rr := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rr.Body.String(), "<Error>")
}

func TestHandleBooking_ConnectivityAnswers502(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	s := newTestServer(t, dead.URL+"/?api")

	// A complete booking that reaches the login step against a dead host.
	body := `<BookingRequest>` +
		`<ApiKey>vron-hotel-17</ApiKey><ResellerId>r1</ResellerId>` +
		`<ExternalReference>EXT-1</ExternalReference><VoucherNumber>V1</VoucherNumber>` +
		`<TourCode>T1</TourCode><BasisId>1</BasisId><SubBasisId>1</SubBasisId>` +
		`<TourDate>2026-10-01</TourDate><TourTimeId>9</TourTimeId>` +
		`<FirstName>Ada</FirstName><LastName>Lovelace</LastName>` +
		`<Email>a@b.cd</Email><Mobile>1</Mobile>` +
		`<PaxAdults>2</PaxAdults><PaxInfants>0</PaxInfants><PaxChildren>0</PaxChildren>` +
		`<PaxFOC>0</PaxFOC><PaxUdef1>0</PaxUdef1><PickupPoint>Lobby</PickupPoint>` +
		`</BookingRequest>`

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Reservation host unavailable")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0/?api")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}
