package http

import (
	"net/http"
	"time"

	"rentdesk-backend/internal/service"
)

const defaultTopLimit = 5

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// reportRange reads from/to, defaulting to the 30 days ending now.
func reportRange(r *http.Request) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if t, err := queryTime(r, "from"); err != nil {
		return from, to, err
	} else if t != nil {
		from = *t
	}
	if t, err := queryTime(r, "to"); err != nil {
		return from, to, err
	} else if t != nil {
		to = *t
	}
	return from, to, nil
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.analyticsSvc.Dashboard(r.Context(), p, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) RevenueByDate(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	points, err := h.analyticsSvc.RevenueByDate(r.Context(), p, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *AnalyticsHandler) RentalsByStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	counts, err := h.analyticsSvc.RentalsByStatus(r.Context(), p, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *AnalyticsHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultTopLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.analyticsSvc.TopItems(r.Context(), p, from, to, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AnalyticsHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	from, to, err := reportRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultTopLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	customers, err := h.analyticsSvc.TopCustomers(r.Context(), p, from, to, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}
