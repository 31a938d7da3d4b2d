package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

const idempotencyHeader = "Idempotency-Key"

// idempotencyTTL — срок хранения записи; после истечения ключ можно переиспользовать.
const idempotencyTTL = 24 * time.Hour

// responseRecorder перехватывает ответ обработчика, чтобы сохранить его
// для повторной выдачи по тому же idempotency-key.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// IdempotencyMiddleware реализует повтор ответа по заголовку Idempotency-Key.
// Запрос без заголовка проходит насквозь. Повтор с тем же ключом и телом
// возвращает сохранённый ответ; тот же ключ с другим телом — конфликт.
func IdempotencyMiddleware(repo domain.IdempotencyRepository, clock domain.Clock, logger *log.Entry) func(http.Handler) http.Handler {
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = log.New().WithField("component", "idempotency-middleware")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" || repo == nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeValidation, "failed to read request body")
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(r.Method, r.URL.Path, body)

			record, err := repo.CreateProcessing(key, hash, clock().Add(idempotencyTTL))
			switch {
			case err == nil:
				// Первый запрос с этим ключом: выполняем и сохраняем ответ.
			case errors.Is(err, domain.ErrIdempotencyHashMismatch):
				writeError(w, http.StatusConflict, codeIdempotency, "idempotency key is used with a different request")
				return
			case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
				replay(w, record, logger)
				return
			default:
				logger.WithError(err).WithField("idempotency_key", key).Warn("idempotency lookup failed")
				writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
				return
			}

			recorder := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, r)

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}

			var markErr error
			if status < http.StatusBadRequest {
				markErr = repo.MarkDone(key, recorder.body.Bytes(), status)
			} else {
				markErr = repo.MarkFailed(key, recorder.body.Bytes(), status)
			}
			if markErr != nil {
				logger.WithError(markErr).WithField("idempotency_key", key).Warn("failed to store idempotent response")
			}
		})
	}
}

// replay отдаёт сохранённый ответ или сообщает, что запрос ещё обрабатывается.
func replay(w http.ResponseWriter, record domain.IdempotencyRecord, logger *log.Entry) {
	if record.Status == domain.IdempotencyStatusProcessing {
		writeError(w, http.StatusConflict, codeIdempotency, "request with this idempotency key is still being processed")
		return
	}

	logger.WithFields(log.Fields{
		"idempotency_key": record.Key,
		"http_status":     record.HTTPStatus,
	}).Info("replaying idempotent response")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replay", "true")
	status := record.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(record.ResponseBody)
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'|'})
	h.Write([]byte(path))
	h.Write([]byte{'|'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
