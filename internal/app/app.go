package app

import (
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/arveloz/erpforms/internal/adapters/events"
	"github.com/arveloz/erpforms/internal/adapters/httpserver"
	"github.com/arveloz/erpforms/internal/adapters/notify"
	"github.com/arveloz/erpforms/internal/adapters/repo/postgres"
	"github.com/arveloz/erpforms/internal/config"
	"github.com/arveloz/erpforms/internal/domain"
	"github.com/arveloz/erpforms/internal/usecase"
	"github.com/arveloz/erpforms/internal/views"
)

type App struct {
	DB   *gorm.DB
	Cfg  *config.Config
	Tmpl *template.Template

	Lookup    *usecase.CustomerLookupUC
	Sourcing  *usecase.ItemSourcingUC
	Intake    *usecase.OrderIntakeUC
	Fulfill   *usecase.FulfillmentUC
	OrderList *usecase.OrderListUC
	Donors    *usecase.DonorUC
	Customers *usecase.CustomerUC

	Orders domain.OrderRepo
	Items  domain.ItemRepo

	Events      *events.Publisher
	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB, cfg *config.Config) (*App, error) {
	custRepo := postgres.NewCustomerRepo(db)
	itemRepo := postgres.NewItemRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	depositRepo := postgres.NewDepositRepo(db)
	fulfillRepo := postgres.NewFulfillmentRepo(db)
	empRepo := postgres.NewEmployeeRepo(db)
	donorRepo := postgres.NewDonorRepo(db)

	notifier := notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderEmail)

	var pub *events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.OrderExchange)
		if err != nil {
			log.Warn().Err(err).Msg("AMQP unavailable, order events disabled")
		} else {
			pub = p
		}
	}

	app := &App{DB: db, Cfg: cfg, Orders: orderRepo, Items: itemRepo, Events: pub}
	app.Lookup = &usecase.CustomerLookupUC{Customers: custRepo}
	app.Sourcing = &usecase.ItemSourcingUC{Items: itemRepo}
	app.Intake = &usecase.OrderIntakeUC{
		Lookup:            app.Lookup,
		Customers:         custRepo,
		Items:             itemRepo,
		Orders:            orderRepo,
		Employees:         empRepo,
		Notifier:          notifier,
		NotifyThreshold:   cfg.NotifyThreshold,
		DefaultSubsidiary: cfg.DefaultSubsidiary,
		TaxRate:           cfg.TaxRate,
		BaseURL:           cfg.BaseURL,
	}
	if pub != nil {
		app.Intake.Events = pub
	}
	app.Fulfill = &usecase.FulfillmentUC{
		Guard: &usecase.FulfillmentGuardUC{
			Orders:              orderRepo,
			Deposits:            depositRepo,
			AllowMissingDeposit: cfg.AllowMissingDeposit,
		},
		Fulfillments: fulfillRepo,
	}
	app.OrderList = &usecase.OrderListUC{Orders: orderRepo, Customers: custRepo}
	app.Donors = &usecase.DonorUC{Donors: donorRepo}
	app.Customers = &usecase.CustomerUC{Customers: custRepo}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		app.OAuthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	funcMap := template.FuncMap{
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	isDev := appEnv == "" || appEnv == "development" || appEnv == "dev"

	var tmpl *template.Template
	var err error
	if isDev {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseGlob("internal/views/*.html")
	} else {
		tmpl, err = template.New("layout").Funcs(funcMap).ParseFS(views.FS, "*.html")
	}
	if err != nil {
		return nil, err
	}
	app.Tmpl = tmpl

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Tmpl:         a.Tmpl,
		Lookup:       a.Lookup,
		Sourcing:     a.Sourcing,
		Intake:       a.Intake,
		Fulfill:      a.Fulfill,
		OrderList:    a.OrderList,
		Donors:       a.Donors,
		Customers:    a.Customers,
		Orders:       a.Orders,
		Items:        a.Items,
		OAuthConfig:  a.OAuthConfig,
		AdminEmails:  a.Cfg.AdminAllowedEmails,
		AdminSecret:  a.Cfg.AdminJWTSecret,
		RateLimitRPM: a.Cfg.RateLimitRPM,
	})
}

func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Customer{}, &domain.Address{}, &domain.Item{},
		&domain.Order{}, &domain.OrderLine{}, &domain.Deposit{},
		&domain.Fulfillment{}, &domain.Employee{}, &domain.Donor{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("ALTER TABLE customers ADD COLUMN IF NOT EXISTS address_changed BOOLEAN DEFAULT false").Error
	_ = a.DB.Exec("ALTER TABLE customers ADD COLUMN IF NOT EXISTS sales_rep_id UUID").Error
	_ = a.DB.Exec("ALTER TABLE orders ADD COLUMN IF NOT EXISTS department VARCHAR(80)").Error
	_ = a.DB.Exec("ALTER TABLE orders ADD COLUMN IF NOT EXISTS class VARCHAR(80)").Error

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_customers_email_lower ON customers (LOWER(email))").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_deposits_order_status ON deposits (order_id, status)").Error

	return nil
}

func (a *App) Close() {
	if a.Events != nil {
		a.Events.Close()
	}
}
