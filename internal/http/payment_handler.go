package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/you/coursepay/internal/service"
	"github.com/you/coursepay/internal/signature"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursepay_http_requests_total",
		Help: "HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursepay_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

const signatureHeader = "X-Gateway-Signature"

type PaymentHandler struct {
	svc    *service.Reconciler
	logger *slog.Logger
}

func NewPaymentHandler(svc *service.Reconciler, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// Webhook is the gateway-push entry point.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/v1/payments/webhook"))
	defer timer.ObserveDuration()

	sig := c.GetHeader(signatureHeader)
	if sig == "" {
		h.respond(c, http.StatusBadRequest, "/v1/payments/webhook", gin.H{"error": "missing signature header"})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respond(c, http.StatusBadRequest, "/v1/payments/webhook", gin.H{"error": "unreadable body"})
		return
	}

	res, err := h.svc.HandleWebhook(c.Request.Context(), body, sig)
	if err != nil {
		h.respondErr(c, "/v1/payments/webhook", err)
		return
	}

	out := gin.H{"success": true}
	if res.Duplicate {
		out["duplicate"] = true
	}
	h.respond(c, http.StatusOK, "/v1/payments/webhook", out)
}

type verifyBody struct {
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// Verify is the client-initiated entry point.
func (h *PaymentHandler) Verify(c *gin.Context) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/v1/payments/verify"))
	defer timer.ObserveDuration()

	var body verifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respond(c, http.StatusBadRequest, "/v1/payments/verify", gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.VerifyPayment(c.Request.Context(), body.PaymentID, body.OrderID, body.Signature)
	if err != nil {
		h.respondErr(c, "/v1/payments/verify", err)
		return
	}

	out := gin.H{
		"success":      true,
		"paymentId":    res.PaymentID,
		"enrollmentId": res.EnrollmentID,
		"userCreated":  res.UserCreated,
	}
	if res.Duplicate {
		out["duplicate"] = true
	}
	h.respond(c, http.StatusOK, "/v1/payments/verify", out)
}

func (h *PaymentHandler) respond(c *gin.Context, code int, endpoint string, payload gin.H) {
	httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(code)).Inc()
	c.JSON(code, payload)
}

func (h *PaymentHandler) respondErr(c *gin.Context, endpoint string, err error) {
	switch {
	case errors.Is(err, service.ErrMalformedEvent),
		errors.Is(err, service.ErrPaymentNotCaptured):
		h.respond(c, http.StatusBadRequest, endpoint, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSignatureMismatch):
		h.respond(c, http.StatusBadRequest, endpoint, gin.H{"error": "invalid signature"})
	case errors.Is(err, signature.ErrSecretMissing):
		// configuration problem, not an authenticity verdict
		h.respond(c, http.StatusBadRequest, endpoint, gin.H{"error": "signature verification unavailable"})
	default:
		h.logger.Error("reconciliation failed", "endpoint", endpoint, "error", err)
		h.respond(c, http.StatusInternalServerError, endpoint, gin.H{"error": "internal error"})
	}
}
