package http

import (
	"net/http"
	"testing"
	"time"
)

func TestSessionCookie(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		c := CookieConfig{Domain: "hirehub.example", MaxAge: 24 * time.Hour}.session("tok")
		if c.Name != "token" || c.Value != "tok" || !c.HttpOnly || c.Path != "/" {
			t.Fatalf("unexpected cookie %+v", c)
		}
		if c.MaxAge != 86400 {
			t.Fatalf("expected max age 86400, got %d", c.MaxAge)
		}
		if c.Secure || c.SameSite != http.SameSiteLaxMode || c.Domain != "" {
			t.Fatalf("development cookie must be lax, insecure and host-only: %+v", c)
		}
	})

	t.Run("production", func(t *testing.T) {
		c := CookieConfig{Production: true, Domain: "hirehub.example"}.session("tok")
		if !c.Secure || c.SameSite != http.SameSiteNoneMode || c.Domain != "hirehub.example" {
			t.Fatalf("production cookie must be secure cross-site: %+v", c)
		}
		if c.MaxAge != 86400 {
			t.Fatalf("expected default max age 86400, got %d", c.MaxAge)
		}
	})

	t.Run("cleared", func(t *testing.T) {
		c := CookieConfig{Production: true}.cleared()
		if c.Value != "" || c.MaxAge >= 0 || !c.Secure {
			t.Fatalf("unexpected cleared cookie %+v", c)
		}
	})
}
