package httpserver

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/arveloz/erpforms/internal/domain"
	"github.com/arveloz/erpforms/internal/usecase"
)

type memCustomerRepo struct {
	byID  map[uuid.UUID]*domain.Customer
	saved []*domain.Customer
}

func (m *memCustomerRepo) FindByEmail(_ context.Context, _ string) ([]domain.Customer, error) {
	return nil, nil
}

func (m *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	if c, ok := m.byID[id]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	m.saved = append(m.saved, c)
	m.byID[c.ID] = c
	return nil
}

var testTmpl = template.Must(template.New("t").Parse(
	`{{define "status.html"}}{{.Message}}{{end}}` +
		`{{define "customer_edit.html"}}{{.Customer.ID}}{{end}}`))

func parseLinesFrom(t *testing.T, form url.Values) ([]uuid.UUID, error) {
	t.Helper()
	r := httptest.NewRequest("POST", "/orders/new", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, r.ParseForm())
	lines, err := parseLines(r)
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	return ids, err
}

func TestParseLinesSkipsFullyEmptyRows(t *testing.T) {
	id := uuid.New()
	form := url.Values{
		"item":     {"", id.String(), ""},
		"quantity": {"", "2", ""},
		"price":    {"", "10", ""},
	}

	ids, err := parseLinesFrom(t, form)

	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, id, ids[0])
}

func TestParseLinesRejectsPartialRow(t *testing.T) {
	id := uuid.New()
	form := url.Values{
		"item":     {id.String()},
		"quantity": {"2"},
		"price":    {""},
	}

	_, err := parseLinesFrom(t, form)

	assert.ErrorIs(t, err, domain.ErrLineIncomplete)
}

func TestParseLinesRejectsZeroQuantity(t *testing.T) {
	id := uuid.New()
	form := url.Values{
		"item":     {id.String()},
		"quantity": {"0"},
		"price":    {"10"},
	}

	_, err := parseLinesFrom(t, form)

	assert.ErrorIs(t, err, domain.ErrLineIncomplete)
}

func TestParseLinesRejectsAllEmpty(t *testing.T) {
	form := url.Values{
		"item":     {"", ""},
		"quantity": {"", ""},
		"price":    {"", ""},
	}

	_, err := parseLinesFrom(t, form)

	assert.Error(t, err)
}

func TestApiLineAmount(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lines/amount?qty=2.5&price=4", nil)

	s.apiLineAmount(w, r)

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"amount":10}`, w.Body.String())
}

func TestApiLineAmountRejectsBadInput(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/lines/amount?qty=two&price=4", nil)

	s.apiLineAmount(w, r)

	assert.Equal(t, 400, w.Code)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	s := &Server{
		adminSecret:  []byte("test-secret"),
		adminAllowed: map[string]struct{}{"boss@example.com": {}},
	}

	tok, _, err := s.issueAdminToken("boss@example.com", -time.Hour)
	require.NoError(t, err)

	_, err = s.verifyAdminToken(tok)
	assert.Error(t, err)

	tok, _, err = s.issueAdminToken("boss@example.com", time.Hour)
	require.NoError(t, err)
	email, err := s.verifyAdminToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", email)
}

func TestAdminTokenRejectsUnlistedEmail(t *testing.T) {
	s := &Server{
		adminSecret:  []byte("test-secret"),
		adminAllowed: map[string]struct{}{"boss@example.com": {}},
	}

	tok, _, err := s.issueAdminToken("intruder@example.com", time.Hour)
	require.NoError(t, err)

	_, err = s.verifyAdminToken(tok)
	assert.Error(t, err)
}

func TestCustomerEditRouteFlagsAddressChange(t *testing.T) {
	repo := &memCustomerRepo{byID: map[uuid.UUID]*domain.Customer{}}
	c := &domain.Customer{ID: uuid.New(), Name: "Ann Ray", Email: "ann@example.com",
		Addresses: []domain.Address{{ID: uuid.New(), Text: "1 Main St"}}}
	repo.byID[c.ID] = c

	h := New(Deps{
		Tmpl:      testTmpl,
		Customers: &usecase.CustomerUC{Customers: repo},
	})

	form := url.Values{
		"name":          {"Ann Ray"},
		"phone":         {"555-0101"},
		"address_label": {""},
		"address_text":  {"9 New Rd"},
	}
	r := httptest.NewRequest("POST", "/customers/"+c.ID.String()+"/edit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	require.Len(t, repo.saved, 1)
	assert.True(t, repo.saved[0].AddressChanged)
	assert.Equal(t, "555-0101", repo.saved[0].Phone)
	require.Len(t, repo.saved[0].Addresses, 1)
	assert.Equal(t, "9 New Rd", repo.saved[0].Addresses[0].Text)
}

func TestCustomerEditUnchangedAddressesLeaveFlagClear(t *testing.T) {
	repo := &memCustomerRepo{byID: map[uuid.UUID]*domain.Customer{}}
	c := &domain.Customer{ID: uuid.New(), Name: "Ann Ray", Email: "ann@example.com",
		Addresses: []domain.Address{{ID: uuid.New(), Text: "1 Main St"}}}
	repo.byID[c.ID] = c

	s := &Server{tmpl: testTmpl, customers: &usecase.CustomerUC{Customers: repo}}

	form := url.Values{
		"name":          {"Ann R."},
		"address_label": {""},
		"address_text":  {"1 Main St"},
	}
	r := httptest.NewRequest("POST", "/customers/"+c.ID.String()+"/edit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	s.handleCustomerEdit(w, r)

	require.Len(t, repo.saved, 1)
	assert.False(t, repo.saved[0].AddressChanged)
	assert.Equal(t, "Ann R.", repo.saved[0].Name)
}

func TestGoogleCallbackRejectsUserinfoFailure(t *testing.T) {
	userinfoHit := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"x","token_type":"bearer"}`))
		case "/userinfo":
			userinfoHit = true
			w.WriteHeader(500)
		}
	}))
	defer ts.Close()

	s := &Server{
		oauthCfg: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{AuthURL: ts.URL + "/auth", TokenURL: ts.URL + "/token"},
		},
		userinfoURL:  ts.URL + "/userinfo",
		adminAllowed: map[string]struct{}{"boss@example.com": {}},
	}

	r := httptest.NewRequest("GET", "/auth/google/callback?state=abc&code=xyz", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	w := httptest.NewRecorder()

	s.handleGoogleCallback(w, r)

	assert.True(t, userinfoHit)
	assert.Equal(t, 400, w.Code)
}

func TestRateLimitKeysOnIPNotPort(t *testing.T) {
	h := RateLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
	}))

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "203.0.113.9:40001"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, first)

	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "203.0.113.9:40002"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, second)

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestMetricPathCollapsesRecordIDs(t *testing.T) {
	id := uuid.NewString()

	assert.Equal(t, "/orders/:id", metricPath("/orders/"+id))
	assert.Equal(t, "/customers/:id/edit", metricPath("/customers/"+id+"/edit"))
	assert.Equal(t, "/orders", metricPath("/orders"))
}
