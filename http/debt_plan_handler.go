package http

import (
	"net/http"

	"finance-dashboard/domain"
	"finance-dashboard/service"
)

type debtPlanRequest struct {
	TotalAmount   float64  `json:"totalAmount"`
	PaidAmount    float64  `json:"paidAmount"`
	Frequency     string   `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	StartDate     string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	SolveMode     string   `json:"solveMode" validate:"required,oneof=by-amount by-date"`
	PaymentAmount *float64 `json:"paymentAmount"`
	EndDate       string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// debtPlanResponse is DebtPlanResult with dates rendered as YYYY-MM-DD.
type debtPlanResponse struct {
	domain.DebtPlanResult
	EndDate *string `json:"endDate,omitempty"`
}

type DebtPlanHandler struct {
	service *service.DebtPlanService
}

func NewDebtPlanHandler(service *service.DebtPlanService) *DebtPlanHandler {
	return &DebtPlanHandler{service: service}
}

func (h *DebtPlanHandler) Calculate(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req debtPlanRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := domain.DebtPlanInput{
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		Frequency:     domain.Frequency(req.Frequency),
		SolveMode:     domain.SolveMode(req.SolveMode),
		PaymentAmount: req.PaymentAmount,
	}
	// both dates already passed the datetime tag
	if start, _ := parseDate(req.StartDate); start != nil {
		input.StartDate = *start
	}
	input.EndDate, _ = parseDate(req.EndDate)

	result, err := h.service.Calculate(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, debtPlanResponse{
		DebtPlanResult: result,
		EndDate:        formatDate(result.EndDate),
	})
}
