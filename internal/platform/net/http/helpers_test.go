package http

import (
	"context"
	stdhttp "net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func withID(r *stdhttp.Request) context.Context {
	return context.WithValue(r.Context(), chimw.RequestIDKey, "rid-1")
}
