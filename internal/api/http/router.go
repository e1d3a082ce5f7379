package http

import (
	"context"
	"net/http"
	"time"

	"rentdesk-backend/internal/security"
	"rentdesk-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles everything the HTTP API calls into.
type Services struct {
	Rental       service.RentalService
	Availability service.AvailabilityService
	Inventory    service.InventoryService
	Customer     service.CustomerService
	Payment      service.PaymentService
	Analytics    service.AnalyticsService
}

type RouterConfig struct {
	AllowedOrigins []string
	// Health is pinged by /healthz when set.
	Health Pinger
}

// NewRouter wires every route under /api/v1 plus /healthz and wraps the
// result in the standard middleware chain.
func NewRouter(svcs Services, tm security.TokenManager, cfg RouterConfig) http.Handler {
	rentals := NewRentalHandler(svcs.Rental, svcs.Payment)
	inventory := NewInventoryHandler(svcs.Inventory, svcs.Availability)
	customers := NewCustomerHandler(svcs.Customer)
	payments := NewPaymentHandler(svcs.Payment)
	analytics := NewAnalyticsHandler(svcs.Analytics)

	router := mux.NewRouter()
	router.Use(NewAuthMiddleware(tm).Handler)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.HandleFunc("/healthz", healthHandler(cfg.Health)).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Rentals
	api.HandleFunc("/rentals", rentals.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals", rentals.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.UpdateRental).Methods(http.MethodPatch, http.MethodPut)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.DeleteRental).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id:[0-9]+}/items", rentals.ListRentalItems).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/status", rentals.ChangeStatus).Methods(http.MethodPut)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", rentals.ProcessReturn).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/payments", rentals.ListRentalPayments).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/payment-summary", rentals.PaymentSummary).Methods(http.MethodGet)

	// Inventory
	api.HandleFunc("/inventory", inventory.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/inventory", inventory.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/inventory/{id:[0-9]+}", inventory.GetItem).Methods(http.MethodGet)
	api.HandleFunc("/inventory/{id:[0-9]+}", inventory.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/inventory/{id:[0-9]+}", inventory.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/inventory/{id:[0-9]+}/availability", inventory.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/categories", inventory.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", inventory.CreateCategory).Methods(http.MethodPost)

	// Customers
	api.HandleFunc("/customers", customers.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", customers.CreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id:[0-9]+}", customers.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", customers.UpdateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id:[0-9]+}", customers.DeleteCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id:[0-9]+}/rentals", customers.RentalHistory).Methods(http.MethodGet)

	// Payments
	api.HandleFunc("/payments", payments.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/payments", payments.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id:[0-9]+}", payments.DeletePayment).Methods(http.MethodDelete)

	// Analytics
	api.HandleFunc("/analytics/dashboard", analytics.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics/revenue", analytics.RevenueByDate).Methods(http.MethodGet)
	api.HandleFunc("/analytics/rentals-by-status", analytics.RentalsByStatus).Methods(http.MethodGet)
	api.HandleFunc("/analytics/top-items", analytics.TopItems).Methods(http.MethodGet)
	api.HandleFunc("/analytics/top-customers", analytics.TopCustomers).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         600,
	})

	return alice.New(recoverPanic, requestID, logRequest, secureHeaders, c.Handler).Then(router)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeErrorStatus(w, r, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
