package handler

import (
	"net/http"

	"servicom/backend/internal/identity"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthRequired validates the bearer token and resolves the principal for the
// request. Deactivated accounts are turned away here, before any route runs.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		userID, err := parseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		principal, err := h.Identity.PrincipalFor(userID)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// StaffOnly rejects requests whose principal is not a staff account.
func (h *Handler) StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		if !p.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		c.Next()
	}
}

// principalFrom returns the request principal, or the anonymous principal
// when the route runs without AuthRequired.
func principalFrom(c *gin.Context) identity.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return identity.Principal{}
	}
	p, ok := v.(identity.Principal)
	if !ok {
		return identity.Principal{}
	}
	return p
}
