package v1

import (
	"context"
	"errors"
	"net/http"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/internal/usecase"
	"gymbook-promotions/pkg/logger"
	"gymbook-promotions/pkg/utils"
)

// PromotionService is the part of usecase.PromotionUsecase the handlers call.
type PromotionService interface {
	ListOffers(ctx context.Context, packageID string) (*usecase.OffersResponse, error)
	Quote(ctx context.Context, req usecase.QuoteRequest) (*usecase.QuoteResponse, error)
	AuditPackage(ctx context.Context, packageID string) (*usecase.AuditResponse, error)
}

type PromotionHandler struct {
	promotionUC PromotionService
}

func NewPromotionHandler(uc PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionUC: uc}
}

// ListPackagePromotions returns the promotions currently offered for a package.
// GET /api/v1/packages/{id}/promotions
func (h *PromotionHandler) ListPackagePromotions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.promotionUC.ListOffers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Quote prices a package with an optional promotion for checkout.
// POST /api/v1/checkout/quote
// A rejected promotion is still 200; the result carries isValid=false and the reason.
func (h *PromotionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req usecase.QuoteRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PackageID == "" {
		utils.WriteError(w, http.StatusBadRequest, "packageId is required")
		return
	}

	resp, err := h.promotionUC.Quote(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// writeUsecaseError maps use-case errors to status codes. Unknown errors are logged and hidden.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPackageNotFound), errors.Is(err, domain.ErrPromotionNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPromotionNotApplicable):
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
