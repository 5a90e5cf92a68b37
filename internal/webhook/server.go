package webhook

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewServer wires the callback route into a chi router and returns the HTTP
// server ready for ListenAndServe. The caller owns Shutdown.
func NewServer(host string, port int, h *Handler) *http.Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Signature"},
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))

	r.With(httputil.RecoverMiddleware).Post("/callbacks", h.HandleCallback)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}
}
