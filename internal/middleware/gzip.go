package middleware

import (
	"compress/gzip"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Типы ответов, которые имеет смысл сжимать
var compressibleTypes = []string{
	"application/json",
	"text/plain",
}

// GzipMiddleware сжимает JSON ответы, если клиент поддерживает gzip
func GzipMiddleware(next http.Handler) http.Handler {
	return chimiddleware.Compress(gzip.DefaultCompression, compressibleTypes...)(next)
}
