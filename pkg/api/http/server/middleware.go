package server

import (
	"log"
	"net/http"
	"time"
)

// loggingMiddleware logs each request once it completes, with elapsed time.
// Long-lived log streams log when the stream closes, not when it opens.
// The ResponseWriter is passed through unwrapped so websocket upgrades
// can still hijack the connection.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Println(r.Method, r.RequestURI, r.RemoteAddr, time.Since(start).Round(time.Millisecond))
	})
}
