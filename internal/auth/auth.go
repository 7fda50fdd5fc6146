// Package auth выдаёт и проверяет подписанную сессионную куку,
// по которой журнал запусков привязывается к пользователю.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	CookieName   = "research_session"
	cookieMaxAge = 30 * 24 * 60 * 60 // 30 дней
)

type Sessions struct {
	secret []byte
}

func New(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

func (s *Sessions) signature(userID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign возвращает значение куки вида userID:signature.
func (s *Sessions) Sign(userID string) string {
	return userID + ":" + s.signature(userID)
}

func (s *Sessions) verify(value string) (string, bool) {
	userID, sig, ok := strings.Cut(value, ":")
	if !ok || userID == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.signature(userID))) {
		return "", false
	}
	return userID, true
}

func (s *Sessions) issue(w http.ResponseWriter) string {
	userID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Sign(userID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
	return userID
}

// Identify возвращает пользователя из валидной куки или выдаёт новую.
func (s *Sessions) Identify(w http.ResponseWriter, r *http.Request) string {
	if userID, ok := s.Lookup(r); ok {
		return userID
	}
	return s.issue(w)
}

// Lookup проверяет куку без выдачи новой.
func (s *Sessions) Lookup(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return s.verify(cookie.Value)
}
