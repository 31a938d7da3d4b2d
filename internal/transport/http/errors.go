package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Коды ошибок API; стабильная часть контракта наряду с HTTP-статусом.
const (
	codeValidation        = "VALIDATION"
	codeNotFound          = "NOT_FOUND"
	codeInvalidTransition = "INVALID_TRANSITION"
	codeConflict          = "CONFLICT"
	codeActionFailed      = "ACTION_FAILED"
	codeIdempotency       = "IDEMPOTENCY_CONFLICT"
	codeInternal          = "INTERNAL"
)

// errorResponse — единый конверт ошибки API.
type errorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// writeDomainError переводит доменную ошибку в HTTP-статус и код конверта.
// Детерминированные отказы перехода — 409: повтор того же события даст тот же
// ответ. Сбой действия — 422: внешняя зависимость подвела, повтор может пройти.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case domain.IsInvalidTransition(err):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case domain.IsVersionConflict(err):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrActionFailed):
		writeError(w, http.StatusUnprocessableEntity, codeActionFailed, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrProductRequired) ||
		errors.Is(err, domain.ErrQuantityInvalid) ||
		errors.Is(err, domain.ErrAmountNegative) ||
		errors.Is(err, domain.ErrStatusInvalid) ||
		errors.Is(err, domain.ErrEventUnknown)
}
