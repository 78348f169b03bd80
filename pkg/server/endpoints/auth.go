package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/monish1402/insurance-llm-system1/pkg/audit"
	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/identity"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/middleware"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// SessionRequest is the body of POST /api/v1/auth/session.
type SessionRequest struct {
	UserID   string         `json:"user_id"`
	UserData map[string]any `json:"user_data"`
}

// SessionResponse carries an issued access token.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	SessionID   string `json:"session_id"`
}

// WhoamiResponse echoes the authenticated identity.
type WhoamiResponse struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	ClientIP  string `json:"client_ip"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RegisterAuthEndpoints registers session creation and identity endpoints
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/api/v1/auth/session", handleCreateSession(s.Config, s.SessionsStore)).Methods("POST")

	whoami := s.JWTMiddleware.Middleware(http.HandlerFunc(handleWhoami))
	s.Router.Handle("/api/v1/auth/whoami", whoami).Methods("GET")
}

func handleCreateSession(cfg *config.Config, sessions store.SessionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SessionRequest
		if r.Body != nil {
			// An empty body creates an anonymous session
			_ = json.NewDecoder(r.Body).Decode(&req)
			defer func() { _ = r.Body.Close() }()
		}
		if req.UserID == "" {
			req.UserID = "anonymous"
		}

		sessionID := uuid.NewString()
		ttl := cfg.AccessTokenTTL()

		userData := model.JSONB(req.UserData)
		if userData == nil {
			userData = model.JSONB{}
		}
		userData["user_id"] = req.UserID

		session := &model.UserSession{
			SessionID: sessionID,
			UserData:  userData,
			ExpiresAt: time.Now().Add(ttl),
		}
		if err := sessions.CreateSession(session); err != nil {
			audit.Log(audit.SessionEvent{
				UserID:       req.UserID,
				ClientIP:     clientIP(r),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		token, err := middleware.IssueToken(cfg.SecretKey, req.UserID, sessionID, ttl)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.SessionEvent{
			UserID:    req.UserID,
			ClientIP:  clientIP(r),
			SessionID: sessionID,
			Success:   true,
		})

		respondWithJSON(w, http.StatusCreated, SessionResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   int(ttl.Seconds()),
			SessionID:   sessionID,
		})
	}
}

func handleWhoami(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "no identity")
		return
	}

	audit.Log(audit.WhoamiEvent{
		UserID:   id.UserID,
		ClientIP: clientIP(r),
		Success:  true,
	})

	resp := WhoamiResponse{
		UserID:    id.UserID,
		SessionID: id.SessionID,
		ClientIP:  clientIP(r),
	}
	if !id.ExpiresAt.IsZero() {
		resp.ExpiresAt = id.ExpiresAt.UTC().Format(time.RFC3339)
	}
	respondWithJSON(w, http.StatusOK, resp)
}
