package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymbook-promotions/internal/domain"
	"gymbook-promotions/internal/usecase"
	"gymbook-promotions/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pkgID = "0b5c2c8e-3f0e-4d8a-9a51-1a0c6f1e2b01"

type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) ListOffers(ctx context.Context, packageID string) (*usecase.OffersResponse, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OffersResponse), args.Error(1)
}

func (m *MockPromotionService) Quote(ctx context.Context, req usecase.QuoteRequest) (*usecase.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.QuoteResponse), args.Error(1)
}

func (m *MockPromotionService) AuditPackage(ctx context.Context, packageID string) (*usecase.AuditResponse, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuditResponse), args.Error(1)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(svc *MockPromotionService, db Pinger) http.Handler {
	return NewRouter(Handlers{
		Promotion:      NewPromotionHandler(svc),
		AdminPromotion: NewAdminPromotionHandler(svc),
		Health:         NewHealthHandler(db),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("metrics"))
		}),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	utils.SetSecret("handler-secret")
	tok, err := utils.GenerateJWT("user-1", "user@example.com", role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListPackagePromotions(t *testing.T) {
	svc := new(MockPromotionService)
	promotionID := "promo-1"
	svc.On("ListOffers", mock.Anything, pkgID).Return(&usecase.OffersResponse{
		Package: domain.Package{ID: pkgID, Price: 1000, IsActive: true},
		Offers: []usecase.Offer{{
			Promotion: domain.Promotion{ID: promotionID, IsActive: true},
			Label:     "ลด 20%",
			Preview:   domain.DiscountResult{OriginalPrice: 1000, DiscountAmount: 200, FinalPrice: 800, PromotionID: &promotionID, IsValid: true},
		}},
	}, nil)

	rec := serve(newTestRouter(svc, fakePinger{}), httptest.NewRequest(http.MethodGet, "/api/v1/packages/"+pkgID+"/promotions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Offers []struct {
			Label   string `json:"label"`
			Preview struct {
				FinalPrice  float64 `json:"finalPrice"`
				PromotionID string  `json:"promotionId"`
				IsValid     bool    `json:"isValid"`
			} `json:"preview"`
		} `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Offers, 1)
	assert.Equal(t, "ลด 20%", body.Offers[0].Label)
	assert.Equal(t, 800.0, body.Offers[0].Preview.FinalPrice)
	assert.Equal(t, "promo-1", body.Offers[0].Preview.PromotionID)
	assert.True(t, body.Offers[0].Preview.IsValid)
	svc.AssertExpectations(t)
}

func TestListPackagePromotions_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"package not found", domain.ErrPackageNotFound, http.StatusNotFound},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPromotionService)
			svc.On("ListOffers", mock.Anything, pkgID).Return(nil, tt.err)

			rec := serve(newTestRouter(svc, fakePinger{}), httptest.NewRequest(http.MethodGet, "/api/v1/packages/"+pkgID+"/promotions", nil))
			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestQuote(t *testing.T) {
	svc := new(MockPromotionService)
	req := usecase.QuoteRequest{PackageID: pkgID, PromotionID: "f3a1b2c4-d5e6-4f70-8a9b-0c1d2e3f4a03"}
	svc.On("Quote", mock.Anything, req).Return(&usecase.QuoteResponse{
		Package: domain.Package{ID: pkgID, Price: 1000},
		Result: domain.DiscountResult{
			OriginalPrice: 1000,
			FinalPrice:    1000,
			Error:         "โปรโมชั่นหมดอายุแล้ว",
			Reason:        domain.ReasonExpired,
		},
	}, nil)

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote",
		strings.NewReader(`{"packageId":"`+req.PackageID+`","promotionId":"`+req.PromotionID+`"}`))
	httpReq.Header.Set("Authorization", bearer(t, domain.RoleCustomer))

	rec := serve(newTestRouter(svc, fakePinger{}), httpReq)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body.Result["isValid"])
	assert.Equal(t, "expired", body.Result["reason"])
	assert.Equal(t, "โปรโมชั่นหมดอายุแล้ว", body.Result["error"])
	assert.Nil(t, body.Result["promotionId"])
	svc.AssertExpectations(t)
}

func TestQuote_Rejects(t *testing.T) {
	svc := new(MockPromotionService)
	router := newTestRouter(svc, fakePinger{})
	auth := bearer(t, domain.RoleCustomer)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{"packageId":`))
	req.Header.Set("Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{"promotionId":"x"}`))
	req.Header.Set("Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)

	svc.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
}

func TestQuote_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrPromotionNotFound, http.StatusNotFound},
		{domain.ErrPromotionNotApplicable, http.StatusUnprocessableEntity},
		{domain.ErrInvalidID, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := new(MockPromotionService)
			svc.On("Quote", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader(`{"packageId":"`+pkgID+`"}`))
			req.Header.Set("Authorization", bearer(t, domain.RoleCustomer))
			assert.Equal(t, tt.want, serve(newTestRouter(svc, fakePinger{}), req).Code)
		})
	}
}

func TestAuditPackage(t *testing.T) {
	svc := new(MockPromotionService)
	svc.On("AuditPackage", mock.Anything, pkgID).Return(&usecase.AuditResponse{
		Package: domain.Package{ID: pkgID},
		Entries: []usecase.AuditEntry{{Promotion: domain.Promotion{ID: "p"}, Applicable: false,
			Result: domain.DiscountResult{Reason: domain.ReasonInactive}}},
	}, nil)
	router := newTestRouter(svc, fakePinger{})
	path := "/api/v1/admin/packages/" + pkgID + "/promotions/audit"

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", bearer(t, domain.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", bearer(t, domain.RoleAdmin))
	rec := serve(router, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reason":"inactive"`)
	svc.AssertNumberOfCalls(t, "AuditPackage", 1)
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(new(MockPromotionService), fakePinger{}), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(newTestRouter(new(MockPromotionService), fakePinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	rec := serve(newTestRouter(new(MockPromotionService), fakePinger{}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}
