package middleware

import (
	"net/http"

	"sistema-asistencia/internal/rbac"
	"sistema-asistencia/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const CtxScopeAll = "rbac_scope_all"

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context")
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     role.(string),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Permission check failed")
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACAuthorizeScoped admits callers holding allAction on any subject, and callers holding ownAction
// when the path parameter names themselves. An empty param means the handler scopes to the caller.
// CtxScopeAll tells the handler which of the two applied.
func RBACAuthorizeScoped(service RBACService, resource, ownAction, allAction, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get("role")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context")
			return
		}
		role := roleVal.(string)

		all, err := service.Enforce(rbac.EnforceRequest{Role: role, Resource: resource, Action: allAction})
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Permission check failed")
			return
		}
		if all {
			c.Set(CtxScopeAll, true)
			c.Next()
			return
		}

		own, err := service.Enforce(rbac.EnforceRequest{Role: role, Resource: resource, Action: ownAction})
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Permission check failed")
			return
		}
		if own && (param == "" || c.Param(param) == c.GetString("user_id")) {
			c.Set(CtxScopeAll, false)
			c.Next()
			return
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource",
			gin.H{"required": resource + ":" + allAction})
		c.Abort()
	}
}
