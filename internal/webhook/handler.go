package webhook

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/goccy/go-json"
)

// Sink receives the generated name of every media file the remote API
// reports as enhanced. Implemented by the pipeline service.
type Sink interface {
	Completed(ctx context.Context, generatedName string) error
}

type callbackPayload struct {
	GeneratedName string `json:"generated_name"`
}

type Handler struct {
	signature string
	sink      Sink
	log       *logger.ZapLogger
}

// NewHandler builds the callback handler. An empty signature disables
// verification.
func NewHandler(signature string, sink Sink, log *logger.ZapLogger) *Handler {
	return &Handler{
		signature: signature,
		sink:      sink,
		log:       log,
	}
}

func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.signature != "" {
		got := r.Header.Get("X-Signature")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.signature)) != 1 {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var payload callbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.GeneratedName == "" {
		http.Error(w, "missing generated_name", http.StatusBadRequest)
		return
	}

	if err := h.sink.Completed(r.Context(), payload.GeneratedName); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "callback handling failed", Error: err})
		http.Error(w, "failed to handle callback: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
