// internal/auth/login.go
//
// Login URL construction, the OAuth portal callback, and the development
// login form.
//
// Context
// -------
// Sign-in is delegated to an external OAuth portal.  The portal expects
// its own query names (appId, redirectUri, type) rather than the RFC 6749
// ones, so LoginURL assembles the URL by hand; the code exchange on the way
// back is a standard token request done with x/oauth2.
//
// Without a portal (portal_url or app_id unset) the login URL points at the
// local /login page instead, which only works when auth.dev_login is on.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/yanizio/viyakaptan/internal/config"
	"github.com/yanizio/viyakaptan/internal/session"
)

const CallbackPath = "/api/oauth/callback"

// LoginURL returns where the "Giriş Yap" button sends the visitor.  origin
// is used when cfg.APIBase is empty.
func LoginURL(cfg config.Auth, origin string) string {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = origin
	}
	apiBase = strings.TrimSuffix(apiBase, "/")

	if cfg.PortalURL == "" || cfg.AppID == "" {
		return apiBase + "/login"
	}

	redirectURI := apiBase + CallbackPath
	q := url.Values{}
	q.Set("appId", cfg.AppID)
	q.Set("redirectUri", redirectURI)
	q.Set("state", encodeState(redirectURI))
	q.Set("type", "signIn")
	return cfg.PortalURL + "/app-auth?" + q.Encode()
}

func encodeState(redirectURI string) string {
	return base64.StdEncoding.EncodeToString([]byte(redirectURI))
}

// Handlers serves the callback and dev-login endpoints.
type Handlers struct {
	cfg      config.Auth
	sessions *session.Manager
	oauth    *oauth2.Config
	userInfo string
	admins   map[string]struct{}
}

// NewHandlers wires cfg.  The OAuth side is inert when no portal is set.
func NewHandlers(cfg config.Auth, m *session.Manager) *Handlers {
	h := &Handlers{cfg: cfg, sessions: m, admins: map[string]struct{}{}}
	for _, e := range cfg.AdminEmails {
		h.admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	if cfg.PortalURL != "" && cfg.AppID != "" {
		portal := strings.TrimSuffix(cfg.PortalURL, "/")
		h.oauth = &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  portal + "/app-auth",
				TokenURL: portal + "/oauth/token",
			},
			RedirectURL: strings.TrimSuffix(cfg.APIBase, "/") + CallbackPath,
		}
		h.userInfo = portal + "/oauth/userinfo"
	}
	return h
}

// RoleFor maps an email to a role.
func (h *Handlers) RoleFor(email string) string {
	if _, ok := h.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return session.RoleAdmin
	}
	return session.RoleUser
}

// Callback completes the portal round trip and signs the user in.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	if q.Get("state") != encodeState(h.oauth.RedirectURL) {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	tok, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		zap.L().Warn("oauth exchange", zap.Error(err))
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}
	id, err := h.fetchUser(r, tok)
	if err != nil {
		zap.L().Warn("oauth userinfo", zap.Error(err))
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}
	if err := h.sessions.Login(w, r, id); err != nil {
		zap.L().Error("issue session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	zap.L().Info("login", zap.String("email", id.Email), zap.String("role", id.Role))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) fetchUser(r *http.Request, tok *oauth2.Token) (session.Identity, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.userInfo, nil)
	if err != nil {
		return session.Identity{}, err
	}
	resp, err := h.oauth.Client(r.Context(), tok).Do(req)
	if err != nil {
		return session.Identity{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return session.Identity{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return session.Identity{}, err
	}
	if info.Email == "" {
		return session.Identity{}, errors.New("userinfo without email")
	}
	return session.Identity{Name: info.Name, Email: info.Email, Role: h.RoleFor(info.Email)}, nil
}

// DevLogin signs in with a posted name and email.  Disabled unless
// auth.dev_login is set.
func (h *Handlers) DevLogin(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.DevLogin {
		http.NotFound(w, r)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		http.Error(w, "email alanı zorunludur", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	id := session.Identity{Name: name, Email: email, Role: h.RoleFor(email)}
	if err := h.sessions.Login(w, r, id); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout clears the session and returns home.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	session.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
