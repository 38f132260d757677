package rest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/localblog/blog/application"
)

const (
	flashCookie = "goblog_flash"
	flashMaxAge = 60
)

// setFlash carries toasts across a redirect.
func setFlash(c *gin.Context, toasts []application.Toast) {
	if len(toasts) == 0 {
		return
	}
	raw, err := json.Marshal(toasts)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", false, true)
}

// consumeFlash returns and clears the toasts left by setFlash.
// A malformed cookie is dropped silently.
func consumeFlash(c *gin.Context) []application.Toast {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var toasts []application.Toast
	if err := json.Unmarshal(raw, &toasts); err != nil {
		return nil
	}
	return toasts
}
