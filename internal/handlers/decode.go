package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-auth-service/internal/jwt"
	"github.com/sbilibin2017/gw-auth-service/internal/logger"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
	"github.com/sbilibin2017/gw-auth-service/internal/services"
	"github.com/sbilibin2017/gw-auth-service/internal/validation"
)

// Decoder defines the interface that the token decoding service must implement.
type Decoder interface {
	Decode(ctx context.Context, token string) (*jwt.Claims, error)
}

// NewDecodeTokenHandler returns an HTTP handler for token validation.
// @Summary Validate a token
// @Description Verifies a signed token and returns the claims embedded in it
// @Tags auth
// @Accept json
// @Produce json
// @Param decodeTokenRequest body models.DecodeTokenRequest true "Token validation request"
// @Success 200 {object} models.Envelope "Decoded claims returned"
// @Failure 409 {object} models.Envelope "Invalid input"
// @Failure 403 {object} models.Envelope "Forged, malformed, or expired token"
// @Router /decode [post]
func NewDecodeTokenHandler(svc Decoder, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.DecodeTokenRequest

		if err := decodeBody(r, &req); err != nil {
			writeError(w, region, http.StatusConflict, "Invalid input. Please provide a token.")
			return
		}

		claims, err := svc.Decode(r.Context(), req.Token)
		if err != nil {
			var vErr *validation.Error
			switch {
			case errors.As(err, &vErr):
				writeError(w, region, http.StatusConflict, "Invalid input. "+vErr.Reason+".")
			case errors.Is(err, services.ErrInvalidToken):
				writeError(w, region, http.StatusForbidden, "Could not validate token.")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, region, http.StatusInternalServerError, "Internal server error.")
			}
			return
		}

		resp := models.DecodeTokenResponse{
			Status: "Successfully validated token.",
			UserID: claims.UserID.String(),
			Email:  claims.Email,
		}
		if claims.IssuedAt != nil {
			resp.IssuedAt = claims.IssuedAt.Unix()
		}
		if claims.ExpiresAt != nil {
			resp.ExpiresAt = claims.ExpiresAt.Unix()
		}

		writeEnvelope(w, region, http.StatusOK, resp)
	}
}
