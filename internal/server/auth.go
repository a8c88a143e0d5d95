package server

import "net/http"

// requireStatsToken guards /stats when a token is configured. The
// token is accepted from the x-auth-token header or the token query
// parameter; with no token configured the endpoint is open.
func (s *Server) requireStatsToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.statsToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("x-auth-token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.statsToken {
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
