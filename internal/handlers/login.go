package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-auth-service/internal/logger"
	"github.com/sbilibin2017/gw-auth-service/internal/models"
	"github.com/sbilibin2017/gw-auth-service/internal/services"
	"github.com/sbilibin2017/gw-auth-service/internal/validation"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user by email and password and return a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login request"
// @Success 200 {object} models.Envelope "Token returned"
// @Failure 409 {object} models.Envelope "Invalid input"
// @Failure 403 {object} models.Envelope "Unknown email or wrong password"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /login [post]
func NewLoginHandler(svc Loginer, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if err := decodeBody(r, &req); err != nil {
			writeError(w, region, http.StatusConflict, "Invalid input. Please enter a valid email and password.")
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			var vErr *validation.Error
			switch {
			case errors.As(err, &vErr):
				writeError(w, region, http.StatusConflict, "Invalid input. "+vErr.Reason+".")
			case errors.Is(err, services.ErrInvalidCredentials):
				// Same message for unknown email and wrong password.
				writeError(w, region, http.StatusForbidden, "No user with that email/password combination exists.")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, region, http.StatusInternalServerError, "Internal server error.")
			}
			return
		}

		writeEnvelope(w, region, http.StatusOK, models.LoginResponse{
			Status: "Successfully logged in.",
			Token:  token,
		})
	}
}
