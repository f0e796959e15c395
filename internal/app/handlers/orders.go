package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/linemk/pandabuds-shop/internal/service"
	"github.com/linemk/pandabuds-shop/internal/validation"
)

// максимальный размер тела заказа
const maxOrderBodyBytes = 64 << 10

const (
	msgRateLimited   = "Previše zahteva. Sačekajte minut."
	msgInternalError = "Došlo je do greške. Molimo pokušajte ponovo."
	msgInvalidBody   = "Invalid request"
)

// CreateOrderHandler обрабатывает /api/orders:
// OPTIONS отвечает на preflight, POST оформляет заказ, на прочие методы 405
func CreateOrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		setCORSHeaders(w)

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			writeJSON(w, logger, http.StatusMethodNotAllowed, OrderResponse{Error: "Method not allowed"})
			return
		}

		var req validation.CheckoutRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBodyBytes)).Decode(&req); err != nil {
			logger.Info("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, logger, http.StatusBadRequest, OrderResponse{Error: msgInvalidBody})
			return
		}

		order, err := checkoutService.PlaceOrder(r.Context(), clientIP(r), &req)
		if err != nil {
			status, msg := orderErrorResponse(err)
			if status == http.StatusInternalServerError {
				logger.Error("failed to place order", slog.Any("error", err))
			}
			writeJSON(w, logger, status, OrderResponse{Error: msg})
			return
		}

		writeJSON(w, logger, http.StatusOK, OrderResponse{Success: true, OrderID: order.ID.String()})
	}
}

// OrderRecoverer перехватывает панику в обработке заказа и отвечает витрине
// в ее формате {success:false, error}. Для прочих маршрутов работает middleware.Recoverer.
func OrderRecoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Error("panic while placing order",
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)
				setCORSHeaders(w)
				writeJSON(w, log, http.StatusInternalServerError, OrderResponse{Error: msgInternalError})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// orderErrorResponse сопоставляет ошибку сервиса со статусом и текстом для клиента
func orderErrorResponse(err error) (int, string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Reason
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	default:
		// PersistenceError и все непредвиденное отдаем без подробностей
		return http.StatusInternalServerError, msgInternalError
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// clientIP идентификатор клиента для лимита: первый X-Forwarded-For,
// затем CF-Connecting-IP, затем адрес соединения
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if cf := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); cf != "" {
		return cf
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}
