package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/internal/leads/finance"
	"dealership_crm_backend/internal/leads/management"
	"dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	leads map[int64]domain.Lead
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (domain.Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return l, nil
}

func (r *stubRepo) List(context.Context, repository.ListParams) ([]domain.Lead, int, error) {
	out := make([]domain.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (r *stubRepo) Create(_ context.Context, l domain.Lead) (domain.Lead, error) {
	l.ID = int64(len(r.leads) + 1)
	r.leads[l.ID] = l
	return l, nil
}

func (r *stubRepo) Update(_ context.Context, id int64, _ repository.UpdateLeadParams) (domain.Lead, error) {
	return r.leads[id], nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id int64, status domain.LeadStatus, reason *string) (domain.Lead, error) {
	l := r.leads[id]
	l.Status, l.NotConvertedReason = status, reason
	r.leads[id] = l
	return l, nil
}

func (r *stubRepo) SetActive(_ context.Context, id int64, active bool) (domain.Lead, error) {
	l := r.leads[id]
	l.IsActive = active
	r.leads[id] = l
	return l, nil
}

func (r *stubRepo) Assign(_ context.Context, id int64, userID *int64) (domain.Lead, error) {
	l := r.leads[id]
	l.AssignedTo = userID
	r.leads[id] = l
	return l, nil
}

func (r *stubRepo) SaveFinance(_ context.Context, l domain.Lead) (domain.Lead, error) {
	r.leads[l.ID] = l
	return l, nil
}

type noUsers struct{}

func (noUsers) CurrentRole(context.Context, int64) (access.Role, error) {
	return "", access.ErrUnknownActor
}

func newValidator(t *testing.T) *validator.Validator {
	t.Helper()
	val := validator.New()
	require.NoError(t, val.RegisterEnum("leadstatus", func(v string) error {
		_, err := domain.ParseStatus(v)
		return err
	}))
	require.NoError(t, val.RegisterEnum("leadpriority", func(v string) error {
		_, err := domain.ParsePriority(v)
		return err
	}))
	return val
}

// withActor stands in for access.Gate, which tests in the access package cover.
func withActor(actor access.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		access.SetActor(c, actor)
		c.Next()
	}
}

func newRouter(t *testing.T, actor access.Actor) (*gin.Engine, *stubRepo) {
	gin.SetMode(gin.TestMode)
	seller := int64(2)
	repo := &stubRepo{leads: map[int64]domain.Lead{
		1: {ID: 1, LeadName: "Fleet", Status: domain.StatusNew, Priority: domain.PriorityLow, Quantity: 1, IsActive: true, AssignedTo: &seller},
	}}
	val := newValidator(t)

	r := gin.New()
	leads := r.Group("/leads", withActor(actor))
	New(management.New(repo, noUsers{}, nil), val).RegisterRoutes(leads, func(c *gin.Context) { c.Next() })
	fin := r.Group("/finance/leads", withActor(actor))
	NewFinanceHandler(finance.New(repo, nil), val).RegisterRoutes(fin)
	return r, repo
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateLeadRejectsUnknownStatus(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 2, Role: access.RoleSales})

	w := do(r, http.MethodPost, "/leads", `{"leadName":"Ali","status":"lost"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]any{"status": "leadstatus"}, body["details"])
}

func TestCreateLeadReturnsCreated(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 2, Role: access.RoleSales})

	w := do(r, http.MethodPost, "/leads", `{"leadName":"Ali","priority":"high","sellingPrice":"125000.50"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "high", body["priority"])
	assert.Equal(t, "125000.5", body["sellingPrice"])
	assert.Equal(t, true, body["isActive"])
}

func TestStatusNotConvertedWithoutReason(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 2, Role: access.RoleSales})

	w := do(r, http.MethodPatch, "/leads/1/status", `{"status":"not_converted"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "reason is required")
}

func TestForeignLeadIsHidden(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 3, Role: access.RoleSales})

	w := do(r, http.MethodGet, "/leads/1", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidLeadID(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 1, Role: access.RoleManager})

	w := do(r, http.MethodGet, "/leads/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetActiveRequiresFlag(t *testing.T) {
	r, repo := newRouter(t, access.Actor{UserID: 1, Role: access.RoleManager})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/leads/1/active", `{}`).Code)

	w := do(r, http.MethodPatch, "/leads/1/active", `{"isActive":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.leads[1].IsActive)
}

func TestFinanceRejectNeedsReason(t *testing.T) {
	r, _ := newRouter(t, access.Actor{UserID: 9, Role: access.RoleFinance})

	w := do(r, http.MethodPost, "/finance/leads/1/reject", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinanceApproveThenPayCommission(t *testing.T) {
	r, repo := newRouter(t, access.Actor{UserID: 9, Role: access.RoleFinance})

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/finance/leads/1/commission-paid", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/finance/leads/1/approve", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/finance/leads/1/commission-paid", "").Code)

	lead := repo.leads[1]
	assert.True(t, *lead.FinanceApproved)
	assert.Equal(t, int64(9), *lead.ApprovedBy)
	assert.True(t, lead.CommissionPaid)
}
