package store

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/ospano/occuview/internal/api"
)

const (
	keyToken = "kloudspot_token"
	keyUser  = "kloudspot_user"
)

// Session is the stored login state. It exists iff a token is present and
// the user record alongside it decodes; anything less reads as logged out.
type Session struct {
	Token string
	User  api.User
}

// SaveSession persists both session entries.
func (s *Store) SaveSession(token string, user api.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.setValue(keyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.setValue(keyUser, string(userJSON)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Session returns the stored session, or nil when there is none. A token
// whose user record is missing or undecodable counts as no session, as
// does a token that is expired or not a parseable JWT.
func (s *Store) Session() *Session {
	token, ok := s.getValue(keyToken)
	if !ok || token == "" {
		return nil
	}
	userJSON, ok := s.getValue(keyUser)
	if !ok {
		return nil
	}
	var user api.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil
	}
	if !tokenUsable(token) {
		return nil
	}
	return &Session{Token: token, User: user}
}

// Token returns the raw stored token for request signing. Unlike Session
// it does not validate: an in-flight request after logout is expected to
// go out tokenless and hit the 401 path.
func (s *Store) Token() string {
	token, _ := s.getValue(keyToken)
	return token
}

// ClearSession removes both entries together.
func (s *Store) ClearSession() error {
	if err := s.deleteValue(keyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.deleteValue(keyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	return nil
}

// Clear satisfies api.CredentialSource.
func (s *Store) Clear() error {
	return s.ClearSession()
}

// tokenUsable checks that the token is a decodable JWT that has not
// expired. The signature is the backend's to verify; the client only needs
// to know whether presenting the token can possibly succeed.
func tokenUsable(token string) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	if err := claims.Valid(); err != nil {
		return false
	}
	return true
}
