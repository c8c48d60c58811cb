package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/arveloz/erpforms/internal/domain"
	"github.com/arveloz/erpforms/internal/usecase"
)

type Server struct {
	mux  *http.ServeMux
	tmpl *template.Template

	lookup    *usecase.CustomerLookupUC
	sourcing  *usecase.ItemSourcingUC
	intake    *usecase.OrderIntakeUC
	fulfill   *usecase.FulfillmentUC
	orderList *usecase.OrderListUC
	donors    *usecase.DonorUC
	customers *usecase.CustomerUC
	orders    domain.OrderRepo
	items     domain.ItemRepo

	oauthCfg     *oauth2.Config
	userinfoURL  string
	adminAllowed map[string]struct{}
	adminSecret  []byte
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type Deps struct {
	Tmpl      *template.Template
	Lookup    *usecase.CustomerLookupUC
	Sourcing  *usecase.ItemSourcingUC
	Intake    *usecase.OrderIntakeUC
	Fulfill   *usecase.FulfillmentUC
	OrderList *usecase.OrderListUC
	Donors    *usecase.DonorUC
	Customers *usecase.CustomerUC
	Orders    domain.OrderRepo
	Items     domain.ItemRepo

	OAuthConfig  *oauth2.Config
	AdminEmails  []string
	AdminSecret  string
	RateLimitRPM int
}

func New(d Deps) http.Handler {
	s := &Server{
		mux:         http.NewServeMux(),
		tmpl:        d.Tmpl,
		lookup:      d.Lookup,
		sourcing:    d.Sourcing,
		intake:      d.Intake,
		fulfill:     d.Fulfill,
		orderList:   d.OrderList,
		donors:      d.Donors,
		customers:   d.Customers,
		orders:      d.Orders,
		items:       d.Items,
		oauthCfg:    d.OAuthConfig,
		userinfoURL: googleUserinfoURL,
	}
	s.adminAllowed = map[string]struct{}{}
	for _, e := range d.AdminEmails {
		s.adminAllowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	s.adminSecret = []byte(d.AdminSecret)

	rpm := d.RateLimitRPM
	if rpm <= 0 {
		rpm = 120
	}
	s.routes()
	return Chain(s.mux,
		RateLimit(rpm),
		Metrics,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/", s.handleHome)

	s.mux.HandleFunc("/orders", s.handleOrders)
	s.mux.HandleFunc("/orders/new", s.handleOrderNew)
	s.mux.HandleFunc("/orders/", s.handleOrderView)
	s.mux.HandleFunc("/fulfillments", s.handleFulfillment)

	s.mux.HandleFunc("/customers/", s.handleCustomerEdit)

	s.mux.HandleFunc("/donors", s.handleDonorSearch)
	s.mux.HandleFunc("/donors/new", s.handleDonorNew)

	s.mux.HandleFunc("/api/customers/lookup", s.apiCustomerLookup)
	s.mux.HandleFunc("/api/items/sourcing", s.apiItemSourcing)
	s.mux.HandleFunc("/api/lines/amount", s.apiLineAmount)

	s.mux.HandleFunc("/admin/orders/export", s.handleOrderExport)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "home.html", map[string]any{})
}

// handleOrders renders the filtered sales order listing. Subtotal and
// tax columns come from two aggregate queries merged by order ID in
// the use case.
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	f := domain.OrderFilter{
		Status:     domain.OrderStatus(qv.Get("status")),
		Subsidiary: qv.Get("subsidiary"),
		Department: qv.Get("department"),
	}
	if raw := qv.Get("customer"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CustomerID = &id
		}
	}
	rows, err := s.orderList.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("order listing")
		s.renderStatus(w, "Something went wrong", false)
		return
	}
	s.render(w, "orders.html", map[string]any{
		"Rows":     rows,
		"Status":   string(f.Status),
		"Statuses": orderStatuses,
		"Filter":   qv,
	})
}

var orderStatuses = []domain.OrderStatus{
	domain.OrderStatusPendingApproval,
	domain.OrderStatusPendingFulfillment,
	domain.OrderStatusPartiallyFulfilled,
	domain.OrderStatusPendingBilling,
	domain.OrderStatusBilled,
}

func (s *Server) handleOrderView(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/orders/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	o, err := s.orders.FindByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "order.html", map[string]any{"Order": o})
}

// handleOrderNew is the one-page "create sales order with new or
// existing customer" flow: GET renders the form, POST runs the
// submission workflow and answers with a plain status page.
func (s *Server) handleOrderNew(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		items, err := s.items.ListActive(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("item options")
			s.renderStatus(w, "Something went wrong", false)
			return
		}
		s.render(w, "order_new.html", map[string]any{"Items": items})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	form := usecase.IntakeForm{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
	}
	if form.FirstName == "" || form.LastName == "" || form.Email == "" || form.Phone == "" {
		s.renderStatus(w, "All body fields are mandatory", false)
		return
	}
	lines, err := parseLines(r)
	if err != nil {
		s.renderStatus(w, err.Error(), false)
		return
	}
	form.Lines = lines
	res, err := s.intake.Submit(r.Context(), form)
	RecordWorkflow("order_intake", err == nil)
	if err != nil {
		log.Error().Err(err).Msg("order intake")
		if errors.Is(err, domain.ErrSubsidiaryMismatch) || errors.Is(err, domain.ErrLineIncomplete) {
			s.renderStatus(w, err.Error(), false)
			return
		}
		s.renderStatus(w, "Something went wrong", false)
		return
	}
	s.renderStatus(w, "Record has been created with the id: "+res.OrderNumber, true)
}

// parseLines reads the parallel item/qty/price arrays the form table
// posts. Rows that are entirely empty are skipped; rows missing either
// quantity or price are rejected outright.
func parseLines(r *http.Request) ([]usecase.IntakeLine, error) {
	itemIDs := r.Form["item"]
	qtys := r.Form["quantity"]
	prices := r.Form["price"]
	var out []usecase.IntakeLine
	for i, raw := range itemIDs {
		qtyStr, priceStr := "", ""
		if i < len(qtys) {
			qtyStr = strings.TrimSpace(qtys[i])
		}
		if i < len(prices) {
			priceStr = strings.TrimSpace(prices[i])
		}
		if strings.TrimSpace(raw) == "" && qtyStr == "" && priceStr == "" {
			continue
		}
		if qtyStr == "" || priceStr == "" {
			return nil, domain.ErrLineIncomplete
		}
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, domain.ErrLineIncomplete
		}
		qty, err := strconv.ParseFloat(qtyStr, 64)
		if err != nil || qty <= 0 {
			return nil, domain.ErrLineIncomplete
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			return nil, domain.ErrLineIncomplete
		}
		out = append(out, usecase.IntakeLine{ItemID: id, Quantity: qty, UnitPrice: price})
	}
	if len(out) == 0 {
		return nil, errors.New("at least one line is required")
	}
	return out, nil
}

// handleFulfillment runs the deposit guard before a fulfillment save.
func (s *Server) handleFulfillment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	orderID, err := uuid.Parse(strings.TrimSpace(r.FormValue("order_id")))
	if err != nil {
		http.Error(w, "order_id", 400)
		return
	}
	f, dec, err := s.fulfill.Create(r.Context(), orderID, r.FormValue("memo"))
	RecordWorkflow("fulfillment_guard", err == nil && dec.Allowed)
	if err != nil {
		log.Error().Err(err).Msg("fulfillment save")
		s.renderStatus(w, "Something went wrong", false)
		return
	}
	if !dec.Allowed {
		s.renderStatus(w, dec.Message, false)
		return
	}
	s.renderStatus(w, "Fulfillment has been created with the id: "+f.ID.String(), true)
}

// handleCustomerEdit is the customer record edit page. The save path
// runs address change detection before the record is persisted, so an
// edited address book flags the customer.
func (s *Server) handleCustomerEdit(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/customers/"), "/edit")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		c, err := s.customers.Customers.FindByID(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		s.render(w, "customer_edit.html", map[string]any{"Customer": c})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	current, err := s.customers.Customers.FindByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	edited := *current
	edited.Name = strings.TrimSpace(r.FormValue("name"))
	edited.Phone = strings.TrimSpace(r.FormValue("phone"))
	edited.Addresses = parseAddresses(r, current.Addresses, id)
	if err := s.customers.Update(r.Context(), &edited); err != nil {
		log.Error().Err(err).Msg("customer update")
		s.renderStatus(w, "Something went wrong", false)
		return
	}
	s.renderStatus(w, "Record has been updated with the id: "+edited.ID.String(), true)
}

// parseAddresses rebuilds the address book from the form's parallel
// label/text arrays. Rows left entirely blank drop out; a row at an
// existing position keeps that address record's identifier.
func parseAddresses(r *http.Request, current []domain.Address, customerID uuid.UUID) []domain.Address {
	labels := r.Form["address_label"]
	texts := r.Form["address_text"]
	var out []domain.Address
	for i, text := range texts {
		label := ""
		if i < len(labels) {
			label = strings.TrimSpace(labels[i])
		}
		text = strings.TrimSpace(text)
		if text == "" && label == "" {
			continue
		}
		a := domain.Address{ID: uuid.New(), CustomerID: customerID, Label: label, Text: text}
		if i < len(current) {
			a.ID = current[i].ID
		}
		out = append(out, a)
	}
	return out
}

func (s *Server) handleDonorNew(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, "donor_new.html", map[string]any{"Groups": domain.BloodGroups})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	d, err := s.donors.Register(r.Context(), usecase.DonorForm{
		FirstName:    r.FormValue("first_name"),
		LastName:     r.FormValue("last_name"),
		Gender:       r.FormValue("gender"),
		Phone:        r.FormValue("phone"),
		BloodGroup:   r.FormValue("blood_group"),
		LastDonation: r.FormValue("last_donation"),
	})
	if err != nil {
		s.renderStatus(w, err.Error(), false)
		return
	}
	s.renderStatus(w, "Record has been created with the id: "+d.ID.String(), true)
}

func (s *Server) handleDonorSearch(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("blood_group")
	data := map[string]any{"Groups": domain.BloodGroups, "Group": group}
	if group != "" {
		list, err := s.donors.FindEligible(r.Context(), group)
		if err != nil {
			s.renderStatus(w, err.Error(), false)
			return
		}
		data["Donors"] = list
		data["Searched"] = true
	}
	s.render(w, "donors.html", data)
}

// apiCustomerLookup backs the order form's email field: the matched
// identifier and subsidiary are echoed into two display fields before
// submission.
func (s *Server) apiCustomerLookup(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	res := s.lookup.ByEmail(r.Context(), email)
	out := map[string]any{"found": res.Found, "customer_id": "", "subsidiary": res.Subsidiary}
	if res.Found {
		out["customer_id"] = res.CustomerID.String()
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 200, out)
}

func (s *Server) apiItemSourcing(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	itemID, err := uuid.Parse(qv.Get("item"))
	if err != nil {
		http.Error(w, "item", 400)
		return
	}
	src, err := s.sourcing.Source(r.Context(), itemID, qv.Get("subsidiary"))
	if err != nil {
		if errors.Is(err, domain.ErrSubsidiaryMismatch) {
			writeJSON(w, 409, map[string]any{"error": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "lookup", 500)
		return
	}
	writeJSON(w, 200, map[string]any{
		"description": src.Description,
		"unit_price":  src.UnitPrice,
		"subsidiary":  src.Subsidiary,
	})
}

// apiLineAmount echoes quantity times price back to the form while a line
// is being edited. The saved order remains authoritative.
func (s *Server) apiLineAmount(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	qty, err1 := strconv.ParseFloat(qv.Get("qty"), 64)
	price, err2 := strconv.ParseFloat(qv.Get("price"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "qty/price", 400)
		return
	}
	writeJSON(w, 200, map[string]any{"amount": domain.LineAmount(qty, price)})
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", 500)
	}
}

// renderStatus is the plain status page every POST answers with.
func (s *Server) renderStatus(w http.ResponseWriter, msg string, ok bool) {
	s.render(w, "status.html", map[string]any{"Message": msg, "OK": ok})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
