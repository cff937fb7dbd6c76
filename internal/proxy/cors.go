// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package proxy

import "net/http"

// CORS header values stamped on every proxy response.
const (
	HeaderAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAllowMethods  = "Access-Control-Allow-Methods"
	HeaderAllowHeaders  = "Access-Control-Allow-Headers"
	HeaderExposeHeaders = "Access-Control-Expose-Headers"

	AllowOrigin   = "*"
	AllowMethods  = "GET, OPTIONS"
	AllowHeaders  = "Content-Type, Authorization, Range"
	ExposeHeaders = "Content-Range, Content-Length, Accept-Ranges"
)

var corsHeaders = [...][2]string{
	{HeaderAllowOrigin, AllowOrigin},
	{HeaderAllowMethods, AllowMethods},
	{HeaderAllowHeaders, AllowHeaders},
	{HeaderExposeHeaders, ExposeHeaders},
}

// ApplyCORS sets the permissive CORS header set on h, replacing existing values.
func ApplyCORS(h http.Header) {
	for _, kv := range corsHeaders {
		h.Set(kv[0], kv[1])
	}
}

// stripCORS removes upstream CORS headers so the values already stamped on the
// response writer are the only ones the client sees.
func stripCORS(h http.Header) {
	for _, kv := range corsHeaders {
		h.Del(kv[0])
	}
	h.Del("Access-Control-Allow-Credentials")
	h.Del("Access-Control-Max-Age")
}

// CORS stamps the header set before routing and answers preflight requests on
// any path with 204 and no body. Error responses written later keep the headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ApplyCORS(w.Header())
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
