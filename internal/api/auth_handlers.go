package api

import (
	"net/http"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/http/response"
)

// authResponse is returned by register and login.
type authResponse struct {
	Account *accountResponse `json:"account"`
	Token   string           `json:"token"`
}

// accountResponse is the API shape of an account, credentials stripped.
type accountResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login,omitempty"`
}

func toAccountResponse(a *domain.Account) *accountResponse {
	resp := &accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.LastLogin != nil {
		resp.LastLogin = a.LastLogin.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// handleRegister creates a new account and returns a session token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	account, session, err := s.authService.Register(r.Context(), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, authResponse{
		Account: toAccountResponse(account),
		Token:   session.Token,
	}, s.logger)
}

// handleLogin authenticates and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	account, session, err := s.authService.Login(r.Context(), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, authResponse{
		Account: toAccountResponse(account),
		Token:   session.Token,
	}, s.logger)
}

// handleLogout terminates the current session. Succeeds even for unknown
// tokens.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		if err := s.authService.Logout(r.Context(), token); err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}
	response.NoContent(w)
}

// handleResetAccountData wipes the account's catalog. The account, its
// settings, and the current session survive.
func (s *Server) handleResetAccountData(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.ResetData(r.Context(), accountID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleGetCurrentAccount returns the authenticated account.
func (s *Server) handleGetCurrentAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.authService.Account(r.Context(), accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toAccountResponse(account), s.logger)
}
