package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finance-dashboard/domain"
	"finance-dashboard/service"
)

type recurringRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Amount      float64  `json:"amount"`
	Frequency   string   `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	AccountID   string   `json:"account_id" validate:"required"`
	CategoryID  *string  `json:"category_id"`
	PaymentType string   `json:"payment_type" validate:"omitempty,oneof=standard debt"`
	TotalAmount *float64 `json:"total_amount"`
	PaidAmount  float64  `json:"paid_amount"`
}

func (req recurringRequest) toInput() domain.RecurringInput {
	input := domain.RecurringInput{
		Name:        req.Name,
		Amount:      req.Amount,
		Frequency:   domain.Frequency(req.Frequency),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		PaymentType: domain.PaymentType(req.PaymentType),
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
	}
	if start, _ := parseDate(req.StartDate); start != nil {
		input.StartDate = *start
	}
	input.EndDate, _ = parseDate(req.EndDate)
	return input
}

type recurringResponse struct {
	domain.RecurringView
	StartDate   string  `json:"start_date"`
	NextDueDate string  `json:"next_due_date"`
	EndDate     *string `json:"end_date"`
}

func toRecurringResponse(v domain.RecurringView) recurringResponse {
	return recurringResponse{
		RecurringView: v,
		StartDate:     v.StartDate.Format(dateLayout),
		NextDueDate:   v.NextDueDate.Format(dateLayout),
		EndDate:       formatDate(v.EndDate),
	}
}

type RecurringHandler struct {
	service *service.RecurringService
}

func NewRecurringHandler(service *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{service: service}
}

// Routes mounts the handler under /api/recurring.
func (h *RecurringHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/process", h.Process)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/toggle", h.Toggle)
}

func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]recurringResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toRecurringResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringResponse(view))
}

func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringResponse(view))
}

func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringResponse(view))
}

func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecurringHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringResponse(view))
}

// Process posts everything that is due. Partial failures still return
// the counts of what was posted.
func (h *RecurringHandler) Process(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ProcessDue(r.Context())
	if err != nil && result.CreatedTransactions == 0 {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
