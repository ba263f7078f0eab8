package server

import (
	"net/http"
	"time"

	"github.com/dooshek/mstts/internal/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestIDHeaderName = "X-Request-ID"

// requestIDHeader echoes the request ID assigned by chi's RequestID middleware
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(requestIDHeaderName, id)
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one structured line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		log := logger.Component("http")
		log.Info().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(started)).
			Msg("request")
	})
}
