package http

import (
	"net/http"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var in service.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.paymentSvc.RecordPayment(r.Context(), p, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.paymentSvc.DeletePayment(r.Context(), p, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var f domain.PaymentFilter
	var err error
	if f.RentalID, err = queryInt64(r, "rental_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.From, err = queryTime(r, "from"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.To, err = queryTime(r, "to"); err != nil {
		writeError(w, r, err)
		return
	}
	f.Method = domain.PaymentMethod(r.URL.Query().Get("method"))

	payments, err := h.paymentSvc.ListPayments(r.Context(), p, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Payment]{Data: payments, Total: int32(len(payments))})
}
