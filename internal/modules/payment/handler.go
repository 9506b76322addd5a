package payment

import (
	"errors"
	"net/http"
	"strconv"

	"roomreserve/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.ProcessPayment)
	rg.GET("/reservations/:id/payment", h.GetStatus)
	rg.POST("/webhooks/payments/:provider", h.Webhook)
}

// ProcessPayment godoc
// @Summary      Pay for a reservation
// @Description  Runs the reservation through the named payment provider
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        body body ProcessPaymentRequest true "Payment payload"
// @Success      200 {object} ProcessPaymentResponse
// @Router       /payments [post]
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.ProcessPayment(c.Request.Context(), req.ReservationID, req.Provider)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}
	status, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, PaymentStatusResponse{ReservationID: id, Status: status})
}

// Webhook godoc
// @Summary      Receive a provider webhook
// @Description  Applies an asynchronous payment notification; duplicated deliveries are acknowledged without effect
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        provider path string true "Provider name"
// @Param        body body WebhookPayload true "Provider notification"
// @Success      200 {object} map[string]interface{}
// @Router       /webhooks/payments/{provider} [post]
func (h *Handler) Webhook(c *gin.Context) {
	provider := c.Param("provider")

	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.loggerf("level=error msg=malformed webhook body provider=%s err=%v", provider, err)
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid webhook body")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), provider, payload); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"acknowledged": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrProviderMismatch):
		response.Error(c, http.StatusConflict, "PROVIDER_MISMATCH", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "PAYMENT_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrGateway):
		// do not leak provider internals to the caller
		h.loggerf("level=error msg=gateway failure surfaced err=%v", err)
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment provider failed to process the request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process payment")
	}
}
