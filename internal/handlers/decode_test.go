package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-auth-service/internal/jwt"
	"github.com/sbilibin2017/gw-auth-service/internal/services"
	"github.com/sbilibin2017/gw-auth-service/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestDecodeTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	issuedAt := time.Unix(1700000000, 0)
	expiresAt := issuedAt.Add(time.Minute)

	claims := &jwt.Claims{
		UserID: userID,
		Email:  "john@example.com",
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
	}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockDecoder)
		expectedCode int
		expectedData map[string]any
	}{
		{
			name: "success",
			body: `{"token":"some.jwt.token"}`,
			mockSetup: func(m *MockDecoder) {
				m.EXPECT().
					Decode(gomock.Any(), "some.jwt.token").
					Return(claims, nil)
			},
			expectedCode: 200,
			expectedData: map[string]any{
				"status":  "Successfully validated token.",
				"user_id": userID.String(),
				"email":   "john@example.com",
				"iat":     float64(issuedAt.Unix()),
				"exp":     float64(expiresAt.Unix()),
			},
		},
		{
			name: "missing token",
			body: `{"token":""}`,
			mockSetup: func(m *MockDecoder) {
				m.EXPECT().
					Decode(gomock.Any(), "").
					Return(nil, &validation.Error{Reason: "token is required"})
			},
			expectedCode: 409,
			expectedData: map[string]any{"error": "Invalid input. token is required."},
		},
		{
			name: "invalid token",
			body: `{"token":"forged.or.expired"}`,
			mockSetup: func(m *MockDecoder) {
				m.EXPECT().
					Decode(gomock.Any(), "forged.or.expired").
					Return(nil, services.ErrInvalidToken)
			},
			expectedCode: 403,
			expectedData: map[string]any{"error": "Could not validate token."},
		},
		{
			name:         "invalid json",
			body:         `{invalid json}`,
			expectedCode: 409,
			expectedData: map[string]any{"error": "Invalid input. Please provide a token."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockDecoder(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewDecodeTokenHandler(mockSvc, testRegion)

			req := httptest.NewRequest(http.MethodPost, "/decode", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			region, data := decodeEnvelope(t, rr.Body)
			assert.Equal(t, testRegion, region)
			assert.Equal(t, tt.expectedData, data)
		})
	}
}
