package auth

import (
	"context"
	"strings"

	pkgerrors "veloj/pkg/errors"
	"veloj/pkg/utils/contextkey"
	"veloj/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// EntryAccessMiddleware authenticates the caller and verifies access to the
// entry named in the "entry" query parameter. The resolved Identity is
// attached to the request context; handlers read it with FromContext.
func EntryAccessMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			response.AbortWithErrorCode(c, pkgerrors.ServiceUnavailable, "auth is not configured")
			return
		}

		token := extractBearerToken(c.GetHeader("Authorization"))
		identity, err := verifier.Verify(token)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		entry := strings.TrimSpace(c.Query("entry"))
		if entry == "" {
			response.AbortWithErrorCode(c, pkgerrors.EntryRequired, "")
			return
		}
		if !identity.CanAccessEntry(entry) {
			response.AbortWithErrorCode(c, pkgerrors.EntryForbidden, "")
			return
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		ctx = context.WithValue(ctx, contextkey.User, identity.User)
		ctx = context.WithValue(ctx, contextkey.Entry, entry)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
