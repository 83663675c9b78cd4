package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loan-predictor/internal/service"
)

const (
	sessionCookieName = "loan_session"
	sessionIDKey      = "session_id"
)

// SessionMiddleware lee la cookie de sesion y guarda la clave en el contexto.
// No crea sesiones: solo el scoring asigna una clave nueva.
func SessionMiddleware(tokens *service.SessionTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens != nil {
			if raw, err := c.Cookie(sessionCookieName); err == nil && raw != "" {
				if sid, err := tokens.Parse(raw); err == nil {
					c.Set(sessionIDKey, sid)
				}
			}
		}
		c.Next()
	}
}

// GetSessionID obtiene la clave de sesion desde el contexto.
func GetSessionID(c *gin.Context) (string, bool) {
	val, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	sid, ok := val.(string)
	return sid, ok && sid != ""
}

// ensureSession devuelve la clave actual o asigna una nueva y emite la cookie.
func ensureSession(c *gin.Context, tokens *service.SessionTokenService, secure bool) (string, error) {
	if sid, ok := GetSessionID(c); ok {
		return sid, nil
	}
	sid := service.NewSessionID()
	token, err := tokens.Issue(sid)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(tokens.TTL().Seconds()), "/", "", secure, true)
	c.Set(sessionIDKey, sid)
	return sid, nil
}
