package server

import (
	"log"
	"net/http"
	"os"
	"strings"

	"evidenceos/core/audit"
	"evidenceos/core/bundle"
	"evidenceos/core/capture"
	"evidenceos/core/chain"
	"evidenceos/core/storage"

	"github.com/golang-jwt/jwt/v5"

	// Load env vars from a local env file for local/dev
	_ "github.com/joho/godotenv/autoload"
)

// --- Environment Variable Config ---
// All sensitive/configurable values are loaded from environment variables.
var (
	apiKey    = os.Getenv("API_KEY")    // API key for CLI/automation clients
	jwtSecret = os.Getenv("JWT_SECRET") // JWT secret for bearer auth
)

type Server struct {
	store      *storage.Storage
	capture    *capture.Service
	ledger     *chain.Ledger
	bundles    *bundle.Generator
	logger     audit.Logger
	ListenAddr string
}

func NewServer(store *storage.Storage, captureSvc *capture.Service, ledger *chain.Ledger, bundles *bundle.Generator, logger audit.Logger, listenAddr string) *Server {
	if logger == nil {
		logger = audit.NewStdoutLogger()
	}
	return &Server{
		store:      store,
		capture:    captureSvc,
		ledger:     ledger,
		bundles:    bundles,
		logger:     logger,
		ListenAddr: listenAddr,
	}
}

// authMiddleware enforces either a bearer JWT or an API key. With neither
// secret configured the check is skipped, which is the local/dev mode.
func authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" && jwtSecret == "" {
			next(w, r)
			return
		}
		authHeader := r.Header.Get("Authorization")
		jwtValid := false
		if strings.HasPrefix(authHeader, "Bearer ") && jwtSecret != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err == nil && token.Valid {
				jwtValid = true
			} else {
				log.Printf("[WARN] Invalid JWT: %v\n", err)
			}
		}
		xAPIKey := r.Header.Get("X-API-Key")
		apiKeyValid := xAPIKey != "" && apiKey != "" && xAPIKey == apiKey

		if !jwtValid && !apiKeyValid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) Start() error {
	http.HandleFunc("/evidence/capture", authMiddleware(s.handleCaptureEvidence))
	http.HandleFunc("/evidence/", authMiddleware(s.handleGetEvidence))
	http.HandleFunc("/evidence", authMiddleware(s.handleListEvidence))
	http.HandleFunc("/audit/trail", authMiddleware(s.handleAuditTrail))
	http.HandleFunc("/audit/verify", authMiddleware(s.handleVerify))
	http.HandleFunc("/audit/generate-bundle", authMiddleware(s.handleGenerateBundle))
	http.HandleFunc("/explanation/", authMiddleware(s.handleExplanation))

	// Health/status endpoints stay unauthenticated for probes.
	http.HandleFunc("/health", s.HandleHealth)
	http.HandleFunc("/health/liveness", s.HandleLiveness)
	http.HandleFunc("/health/readiness", s.HandleReadiness)
	http.HandleFunc("/status", s.HandleStatus)

	log.Printf("Evidence API listening on %s\n", s.ListenAddr)
	return http.ListenAndServe(s.ListenAddr, nil)
}
