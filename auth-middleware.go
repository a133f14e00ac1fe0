package main

import (
	"net/http"
	"strings"

	"karya-project/microservices/points-service/utils"
)

// authMiddleware validira JWT i prenosi ulogu i ID korisnika kroz headere,
// da handleri ne moraju sami da diraju token.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Ekstrakcija tokena
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		if claims.Role == "" {
			http.Error(w, "Missing role in token", http.StatusUnauthorized)
			return
		}

		// Dodajemo ulogu i ID u headere pre nego što prosledimo dalje
		r.Header.Set("Role", claims.Role)
		r.Header.Set("User-ID", claims.UserID)
		next.ServeHTTP(w, r)
	})
}
