package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	code := q.Get("code")
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != state {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get(s.userinfoURL)
	if err != nil {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		log.Error().Int("status", resp.StatusCode).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(body, &info)
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" {
		http.Error(w, "email", 400)
		return
	}
	if _, ok := s.adminAllowed[email]; !ok {
		http.Error(w, "forbidden", 403)
		return
	}
	signed, exp, err := s.issueAdminToken(email, 8*time.Hour)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: signed, Path: "/", Expires: exp, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, "/orders", 302)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) issueAdminToken(email string, dur time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(dur)
	claims := jwt.MapClaims{
		"sub":  email,
		"role": "admin",
		"iss":  "erpforms",
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.adminSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.adminSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	role, _ := claims["role"].(string)
	email, _ := claims["sub"].(string)
	if role != "admin" || email == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	if _, allowed := s.adminAllowed[strings.ToLower(email)]; !allowed {
		return "", jwt.ErrTokenInvalidClaims
	}
	return email, nil
}

func (s *Server) readAdminToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("admin_token"); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	tok := s.readAdminToken(r)
	if tok == "" {
		http.Error(w, "unauthorized", 401)
		return false
	}
	if _, err := s.verifyAdminToken(tok); err != nil {
		http.Error(w, "unauthorized", 401)
		return false
	}
	return true
}
