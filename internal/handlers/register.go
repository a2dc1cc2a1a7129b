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

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, email, username, password string) (string, error)
}

// NewCreateUserHandler returns an HTTP handler for account creation.
// @Summary Create a new user
// @Description Creates a new user account with a unique email and returns a signed token. Password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param createUserRequest body models.CreateUserRequest true "User creation request"
// @Success 200 {object} models.Envelope "User created, token issued"
// @Failure 409 {object} models.Envelope "Invalid input or email already taken"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /user [post]
func NewCreateUserHandler(svc Registerer, region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest

		if err := decodeBody(r, &req); err != nil {
			writeError(w, region, http.StatusConflict, "Invalid input. Please enter a valid email, username, and password.")
			return
		}

		token, err := svc.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			var vErr *validation.Error
			switch {
			case errors.As(err, &vErr):
				writeError(w, region, http.StatusConflict, "Invalid input. "+vErr.Reason+".")
			case errors.Is(err, services.ErrEmailAlreadyExists):
				writeError(w, region, http.StatusConflict, "User with this email already exists.")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, region, http.StatusInternalServerError, "Internal server error.")
			}
			return
		}

		writeEnvelope(w, region, http.StatusOK, models.CreateUserResponse{
			Status: "Successfully created user!",
			Token:  token,
		})
	}
}
