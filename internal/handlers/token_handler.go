package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/todamoon/terminal/internal/middleware"
	"github.com/todamoon/terminal/internal/services"
)

type TokenIssuer interface {
	GenerateToken(ctx context.Context, uid string) (*services.IssuedToken, error)
}

type TokenHandler struct {
	service   TokenIssuer
	validator *services.ValidationHelper
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(service TokenIssuer) *TokenHandler {
	return &TokenHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// IssueToken encrypts a driver token for an existing account
// @Summary Issue driver token
// @Description Encrypt a scannable token for a registered driver and render it as a QR code
// @Tags Tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{uid=string} true "Token issuing request"
// @Success 200 {object} object{token=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /api/v1/tokens [post]
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := middleware.OperatorID(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		UID string `json:"uid" validate:"required,max=128"`
	}

	if err := h.validator.DecodeJSONBody(w, r, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidBody):
			services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		case errors.Is(err, services.ErrMultipleValues):
			services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		default:
			services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		}
		return
	}

	issued, err := h.service.GenerateToken(r.Context(), req.UID)
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	case errors.Is(err, services.ErrStoreUnavailable):
		services.SendErrorResponse(w, "Record store unavailable", http.StatusServiceUnavailable, nil)
		return
	case err != nil:
		log.Printf("[TOKENS] Failed to issue token for %s: %v", req.UID, err)
		services.SendErrorResponse(w, "Failed to issue token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[TOKENS] Operator %s issued token for %s", operatorID, issued.UID)
	services.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"uid":     issued.UID,
		"token":   issued.Token,
		"qrImage": issued.QRImage,
	})
}
