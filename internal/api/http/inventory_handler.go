package http

import (
	"net/http"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"
)

type InventoryHandler struct {
	inventorySvc    service.InventoryService
	availabilitySvc service.AvailabilityService
}

func NewInventoryHandler(inventorySvc service.InventoryService, availabilitySvc service.AvailabilityService) *InventoryHandler {
	return &InventoryHandler{inventorySvc: inventorySvc, availabilitySvc: availabilitySvc}
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var in service.InventoryItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.inventorySvc.CreateItem(r.Context(), p, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.inventorySvc.GetItem(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.InventoryItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.inventorySvc.UpdateItem(r.Context(), p, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type deleteItemResponse struct {
	Deleted bool `json:"deleted"`
	Retired bool `json:"retired"`
}

func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	retired, err := h.inventorySvc.DeleteItem(r.Context(), p, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteItemResponse{Deleted: !retired, Retired: retired})
}

func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var f domain.InventoryFilter
	var err error
	if f.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		writeError(w, r, err)
		return
	}
	for _, s := range queryList(r, "status") {
		f.Statuses = append(f.Statuses, domain.ItemStatus(s))
	}
	f.Condition = domain.ItemCondition(r.URL.Query().Get("condition"))
	f.Search = r.URL.Query().Get("search")
	if f.Page, f.PageSize, err = queryPage(r); err != nil {
		writeError(w, r, err)
		return
	}

	items, total, err := h.inventorySvc.ListItems(r.Context(), p, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.InventoryItem]{Data: items, Total: total})
}

// CheckAvailability reports how many units of an item are free over [start, end].
// exclude_rental_id ignores one rental's own bookings, as when editing it.
func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := requireQueryTime(r, "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := requireQueryTime(r, "end")
	if err != nil {
		writeError(w, r, err)
		return
	}
	exclude, err := queryInt64(r, "exclude_rental_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	avail, err := h.availabilitySvc.CheckAvailability(r.Context(), p, id, start, end, exclude)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.inventorySvc.CreateCategory(r.Context(), p, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	cats, err := h.inventorySvc.ListCategories(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Category]{Data: cats, Total: int32(len(cats))})
}
