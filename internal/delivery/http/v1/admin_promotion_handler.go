package v1

import (
	"net/http"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/pkg/logger"
	"gymbook-promotions/pkg/utils"
)

// AdminPromotionHandler serves read-only promotion diagnostics for admins.
type AdminPromotionHandler struct {
	promotionUC PromotionService
}

func NewAdminPromotionHandler(uc PromotionService) *AdminPromotionHandler {
	return &AdminPromotionHandler{promotionUC: uc}
}

// AuditPackage shows every promotion that could touch a package and how the engine treats it.
// GET /api/v1/admin/packages/{id}/promotions/audit
func (h *AdminPromotionHandler) AuditPackage(w http.ResponseWriter, r *http.Request) {
	resp, err := h.promotionUC.AuditPackage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	if admin := domain.UserFromContext(r.Context()); admin != nil {
		logger.WithContext(r.Context()).Info().
			Str("admin_id", admin.ID).
			Str("package_id", resp.Package.ID).
			Int("entries", len(resp.Entries)).
			Msg("Promotion audit")
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
