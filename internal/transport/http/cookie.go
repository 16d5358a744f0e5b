package http

import (
	"net/http"
	"time"
)

const sessionCookieName = "token"

// CookieConfig shapes the session cookie. Production deployments serve the
// frontend from another origin, so the cookie must be Secure and SameSite=None
// there.
type CookieConfig struct {
	Production bool
	Domain     string
	MaxAge     time.Duration
}

func (cc CookieConfig) session(token string) *http.Cookie {
	maxAge := cc.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	cookie := cc.base()
	cookie.Value = token
	cookie.MaxAge = int(maxAge / time.Second)
	cookie.Expires = time.Now().Add(maxAge)
	return cookie
}

func (cc CookieConfig) cleared() *http.Cookie {
	cookie := cc.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func (cc CookieConfig) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cc.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Domain = cc.Domain
	}
	return cookie
}
