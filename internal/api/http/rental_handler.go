package http

import (
	"net/http"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc  service.RentalService
	paymentSvc service.PaymentService
}

func NewRentalHandler(rentalSvc service.RentalService, paymentSvc service.PaymentService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, paymentSvc: paymentSvc}
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var in service.CreateRentalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.CreateRental(r.Context(), p, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// ListRentalItems returns the line items of one rental.
func (h *RentalHandler) ListRentalItems(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := rental.Items
	if items == nil {
		items = []domain.RentalItem{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.RentalItem]{Data: items, Total: int32(len(items))})
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	filter, err := rentalFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), p, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Rental]{Data: rentals, Total: total})
}

func rentalFilterFromQuery(r *http.Request) (domain.RentalFilter, error) {
	var f domain.RentalFilter
	var err error
	for _, s := range queryList(r, "status") {
		f.Statuses = append(f.Statuses, domain.RentalStatus(s))
	}
	if f.CustomerID, err = queryInt64(r, "customer_id"); err != nil {
		return f, err
	}
	if f.From, err = queryTime(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryTime(r, "to"); err != nil {
		return f, err
	}
	f.Search = r.URL.Query().Get("search")
	f.SortBy = domain.RentalSortField(r.URL.Query().Get("sort_by"))
	f.SortDesc = r.URL.Query().Get("sort_desc") == "true"
	if f.Page, f.PageSize, err = queryPage(r); err != nil {
		return f, err
	}
	return f, nil
}

func (h *RentalHandler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.UpdateRentalInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.UpdateRental(r.Context(), p, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type changeStatusRequest struct {
	Status domain.RentalStatus `json:"status"`
}

func (h *RentalHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.ChangeStatus(r.Context(), p, id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.ReturnInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.ProcessReturn(r.Context(), p, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentalSvc.DeleteRental(r.Context(), p, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RentalHandler) ListRentalPayments(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.paymentSvc.ListPayments(r.Context(), p, domain.PaymentFilter{RentalID: &id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Payment]{Data: payments, Total: int32(len(payments))})
}

func (h *RentalHandler) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.paymentSvc.GetSummary(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
