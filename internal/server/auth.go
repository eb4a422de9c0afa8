package server

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskapi/internal/auth"
	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

const (
	userCtxKey  = "user"
	tokenCtxKey = "access_token"
)

func (api *TaskAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		respondInvalid(ctx, err)
		return
	}

	token, err := api.issuer.Login(ctx.Request.Context(), req.Email, req.Password, req.DeviceName)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
			return
		}
		api.log.Error().Err(err).Msg("login failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token}})
}

// RequireToken rejects requests without a valid bearer token and stores the
// resolved user in the gin context.
func RequireToken(issuer *auth.Issuer, log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		scheme, bearer, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(bearer) == "" {
			abortUnauthenticated(ctx)
			return
		}

		user, token, err := issuer.Authenticate(ctx.Request.Context(), strings.TrimSpace(bearer))
		if err != nil {
			if stderrors.Is(err, errors.ErrUnauthenticated) {
				abortUnauthenticated(ctx)
				return
			}
			log.Error().Err(err).Msg("token lookup failed")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": errors.ErrInternalServer.Error()})
			return
		}

		ctx.Set(userCtxKey, user)
		ctx.Set(tokenCtxKey, token)
		ctx.Next()
	}
}

func abortUnauthenticated(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errors.ErrUnauthenticated.Error()})
}

// currentUser returns the user set by RequireToken.
func currentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil || user.ID == 0 {
		return nil, false
	}
	return user, true
}
