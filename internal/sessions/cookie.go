package sessions

import (
	"net/http"
	"strings"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "roastmycode_session"
	// SplashCookieName is a browser-session cookie: it carries no Max-Age,
	// so the splash shows again once the browser is closed.
	SplashCookieName = "roastmycode_splash"
	ClientIDHeader   = "X-Client-Id"

	keyClientID      = "client_id"
	keySplashSeen    = "splash_seen"
	ctxClientID      = "roast.client_id"
	ctxSecureCookies = "roast.secure_cookies"
)

type CookieOptions struct {
	Secret string
	Secure bool
	MaxAge int
}

// Middleware installs the signed cookie sessions and resolves the client id:
// an explicit X-Client-Id header wins, then the cookie, else a new id.
func Middleware(opts CookieOptions) []gin.HandlerFunc {
	secret := opts.Secret
	if strings.TrimSpace(secret) == "" {
		secret = "roastmycode-dev-secret"
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 86400 * 30
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(ginsessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	secure := opts.Secure
	return []gin.HandlerFunc{
		ginsessions.SessionsMany([]string{CookieName, SplashCookieName}, store),
		func(c *gin.Context) {
			c.Set(ctxSecureCookies, secure)
			resolveClient(c)
		},
	}
}

func resolveClient(c *gin.Context) {
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); validClientID(id) {
		c.Set(ctxClientID, id)
		c.Next()
		return
	}
	session := ginsessions.DefaultMany(c, CookieName)
	id, _ := session.Get(keyClientID).(string)
	if !validClientID(id) {
		id = uuid.NewString()
		session.Set(keyClientID, id)
		_ = session.Save()
	}
	c.Set(ctxClientID, id)
	c.Next()
}

func validClientID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		ok := r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func ClientID(c *gin.Context) string {
	return c.GetString(ctxClientID)
}

// SplashSeen reports whether the splash was already shown in this browser
// session. Header-identified clients have no cookie and always see it once
// per controller.
func SplashSeen(c *gin.Context) bool {
	seen, _ := ginsessions.DefaultMany(c, SplashCookieName).Get(keySplashSeen).(bool)
	return seen
}

func MarkSplashSeen(c *gin.Context) {
	session := ginsessions.DefaultMany(c, SplashCookieName)
	session.Options(ginsessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   c.GetBool(ctxSecureCookies),
		SameSite: http.SameSiteLaxMode,
	})
	session.Set(keySplashSeen, true)
	_ = session.Save()
}
