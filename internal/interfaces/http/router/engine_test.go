package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	addressbookapp "github.com/addressbook/backend/internal/application/addressbook"
	"github.com/addressbook/backend/internal/infrastructure/config"
	"github.com/addressbook/backend/internal/infrastructure/persistence"
	"github.com/addressbook/backend/internal/interfaces/http/handler"
	"github.com/addressbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testServer wires the full stack against a private sqlite database
type testServer struct {
	engine  *gin.Engine
	service *addressbookapp.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "address_book.db"),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop()
	service := addressbookapp.NewService(persistence.NewGormAddressBookRepository(db.DB), log)

	engine := NewEngine(EngineConfig{
		Logger:      log,
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20},
		Security:    middleware.DefaultSecurityConfig(),
		AddressBook: handler.NewAddressBookHandler(service),
		System:      handler.NewSystemHandler(db, "address-book", "test"),
	})
	return &testServer{engine: engine, service: service}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) createBook(t *testing.T, body string) addressbookapp.AddressBookResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/address-book/", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var book addressbookapp.AddressBookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return book
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestEngine_CreateAndGet(t *testing.T) {
	s := newTestServer(t)

	created := s.createBook(t, `{"name":"Friends"}`)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Friends", created.Name)
	assert.Empty(t, created.Customers)

	first := s.do(t, http.MethodGet, "/api/v1/address-book/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, first.Code)
	got := decode[addressbookapp.AddressBookResponse](t, first)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Friends", got.Name)

	second := s.do(t, http.MethodGet, "/api/v1/address-book/"+created.ID.String(), "")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestEngine_CreateWithoutTrailingSlash(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/address-book", `{"name":"Work"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Work", decode[addressbookapp.AddressBookResponse](t, w).Name)
}

func TestEngine_CreateWithEmptyNamePersistsNothing(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/address-book/", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":["Please provide name for address book"]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/address-book/", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":["Please provide name for address book"]}`, w.Body.String())

	distinct := s.do(t, http.MethodGet, "/api/v1/address-book/customers", "")
	require.Equal(t, http.StatusOK, distinct.Code)
	assert.JSONEq(t, `[]`, distinct.Body.String())
}

func TestEngine_AddAndRemoveCustomer(t *testing.T) {
	s := newTestServer(t)
	book := s.createBook(t, `{"name":"Friends"}`)
	base := "/api/v1/address-book/" + book.ID.String()

	w := s.do(t, http.MethodPost, base+"/customer",
		`{"firstName":"Ada","lastName":"Lovelace","phoneNumber":"0400000000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	customer := decode[addressbookapp.CustomerResponse](t, w)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	assert.Equal(t, "Ada", customer.FirstName)
	assert.Equal(t, "Lovelace", customer.LastName)
	assert.Equal(t, "0400000000", customer.PhoneNumber)

	list := s.do(t, http.MethodGet, base+"/customers", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode[[]addressbookapp.CustomerResponse](t, list), 1)

	// removing an id that is not in the book is a no-op
	w = s.do(t, http.MethodDelete, base+"/customer/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	list = s.do(t, http.MethodGet, base+"/customers", "")
	assert.Len(t, decode[[]addressbookapp.CustomerResponse](t, list), 1)

	w = s.do(t, http.MethodDelete, base+"/customer/"+customer.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())

	list = s.do(t, http.MethodGet, base+"/customers", "")
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestEngine_AddDuplicateCustomerIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	book := s.createBook(t, `{"name":"Friends"}`)
	base := "/api/v1/address-book/" + book.ID.String()
	body := `{"firstName":"Ada","lastName":"Lovelace","phoneNumber":"0400000000"}`

	first := decode[addressbookapp.CustomerResponse](t, s.do(t, http.MethodPost, base+"/customer", body))
	second := decode[addressbookapp.CustomerResponse](t, s.do(t, http.MethodPost, base+"/customer", body))
	assert.Equal(t, first.ID, second.ID)

	list := s.do(t, http.MethodGet, base+"/customers", "")
	assert.Len(t, decode[[]addressbookapp.CustomerResponse](t, list), 1)
}

func TestEngine_MissingBook(t *testing.T) {
	s := newTestServer(t)
	missing := "/api/v1/address-book/" + uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"get", http.MethodGet, missing, ""},
		{"add customer", http.MethodPost, missing + "/customer", `{"firstName":"A","lastName":"B","phoneNumber":"1"}`},
		{"remove customer", http.MethodDelete, missing + "/customer/" + uuid.NewString(), ""},
		{"list customers", http.MethodGet, missing + "/customers", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)

			var resp struct {
				Error struct {
					StatusCode int    `json:"statusCode"`
					Message    string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusNotFound, resp.Error.StatusCode)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}

	// nothing was created as a side effect
	distinct := s.do(t, http.MethodGet, "/api/v1/address-book/customers", "")
	assert.JSONEq(t, `[]`, distinct.Body.String())
}

func TestEngine_DistinctCustomersAcrossBooks(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"%s","customers":[{"firstName":"Grace","lastName":"Hopper","phoneNumber":"0311111111"}]}`

	for _, name := range []string{"One", "Two", "Three"} {
		s.createBook(t, strings.Replace(body, "%s", name, 1))
	}
	s.createBook(t, `{"name":"Four","customers":[{"firstName":"Alan","lastName":"Turing","phoneNumber":"0299999999"}]}`)

	w := s.do(t, http.MethodGet, "/api/v1/address-book/customers", "")
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]addressbookapp.CustomerResponse](t, w)
	require.Len(t, customers, 2)

	names := []string{customers[0].FirstName, customers[1].FirstName}
	assert.ElementsMatch(t, []string{"Grace", "Alan"}, names)
}

func TestEngine_MalformedRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/address-book/", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"statusCode":400,"message":"Bad Request"}}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/address-book/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"statusCode":400,"message":"Bad Request"}}`, w.Body.String())
}

func TestEngine_AddressBookBodyLimit(t *testing.T) {
	s := newTestServer(t)

	oversized := `{"name":"` + strings.Repeat("a", 1<<20) + `"}`
	w := s.do(t, http.MethodPost, "/api/v1/address-book/", oversized)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t,
		`{"error":{"statusCode":413,"message":"Request body exceeds maximum allowed size"}}`,
		w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/address-book/customers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestEngine_Ambient(t *testing.T) {
	s := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","database":"up"}`, w.Body.String())
	})

	t.Run("request id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", "")
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("security headers", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/health", "")
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/nowhere", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":{"statusCode":404,"message":"Not Found"}}`, w.Body.String())
	})

	t.Run("system info", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/system/info", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestEngine_ClearAddressBooks(t *testing.T) {
	s := newTestServer(t)
	s.createBook(t, `{"name":"One","customers":[{"firstName":"A","lastName":"B","phoneNumber":"1"}]}`)

	require.NoError(t, s.service.ClearAddressBooks(context.Background()))

	w := s.do(t, http.MethodGet, "/api/v1/address-book/customers", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}
