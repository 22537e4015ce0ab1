package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/internal/store/drivers/sqlite"
	"github.com/carbonpath/csrd/pkg/cryptox"
	"github.com/carbonpath/csrd/pkg/idx"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"
)

const testIssuer = "test-issuer"

type testEnv struct {
	router *Router
	store  store.Store
	keys   *jwtx.KeyManager
	mail   *captureMailer
}

type captureMailer struct {
	to   string
	html string
	sent int
}

func (m *captureMailer) Send(_ context.Context, to, _, html string) {
	m.to, m.html = to, html
	m.sent++
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  testIssuer,
		NumKeys: 1,
	})
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{
		Service: "csrd-api-test",
		Env:     "dev",
		Level:   "error",
		Format:  "text",
	})

	mail := &captureMailer{}
	suggest := &service.SuggestService{}

	router := NewRouter(km.KeySet, km.Verifier, "test", st, logger)
	router.SessionService = &service.SessionService{
		Store:      st,
		KeyManager: km,
		Issuer:     testIssuer,
	}
	router.OnboardingService = &service.OnboardingService{Store: st}
	router.OrganizationService = &service.OrganizationService{Store: st}
	router.InviteService = &service.InviteService{
		Store:  st,
		Mailer: mail,
		Config: service.InviteConfig{SiteBaseURL: "https://app.example.com"},
	}
	router.AssessmentService = &service.AssessmentService{Store: st}
	router.ReportService = &service.ReportService{Store: st, Suggest: suggest}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, keys: km, mail: mail}
}

// seedUser inserts an organization member and returns the user plus a
// bearer token for them.
func (e *testEnv) seedUser(t *testing.T, orgID, role string) (domain.User, string) {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:             idx.New().String(),
		Email:          fmt.Sprintf("user-%s@example.com", idx.New().String()),
		Name:           "Test User",
		PasswordHash:   "hash",
		OrganizationID: orgID,
		Role:           role,
	}
	require.NoError(t, e.store.Users().CreateUser(ctx, user))

	return user, e.tokenFor(t, user)
}

func (e *testEnv) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(
		user.ID,
		user.OrganizationID,
		user.Role,
		domain.ScopesForRole(user.Role),
		time.Minute,
		testIssuer,
		user.Email,
		user.Name,
		time.Now(),
	)
	token, err := e.keys.GetSigner().Sign(claims)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedOrg(t *testing.T) domain.Organization {
	t.Helper()

	org := domain.Organization{
		ID:            idx.New().String(),
		Name:          "Acme GmbH",
		Sector:        "Manufacturing",
		Country:       "DE",
		EmployeeCount: 340,
		ReportingYear: 2025,
	}
	require.NoError(t, e.store.Organizations().CreateOrganization(context.Background(), org))
	return org
}

func (e *testEnv) do(t *testing.T, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateInviteContract(t *testing.T) {
	env := newTestEnv(t)
	org := env.seedOrg(t)
	_, adminToken := env.seedUser(t, org.ID, domain.RoleAdmin)

	t.Run("requires authentication", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invites", "", CreateInviteRequest{
			Email: "alice@example.com", Role: domain.RoleContributor,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires the invites scope", func(t *testing.T) {
		_, viewerToken := env.seedUser(t, org.ID, domain.RoleViewer)
		rec := env.do(t, http.MethodPost, "/v1/invites", viewerToken, CreateInviteRequest{
			Email: "alice@example.com", Role: domain.RoleContributor,
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("requires email and role", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invites", adminToken, CreateInviteRequest{
			Email: "alice@example.com",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		require.False(t, resp.Success)
		require.Equal(t, "Email and role are required", resp.Message)
	})

	t.Run("issues a token and sends the email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invites", adminToken, CreateInviteRequest{
			Email: "alice@example.com", Role: domain.RoleContributor,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[CreateInviteResponse](t, rec)
		require.True(t, resp.Success)
		require.NotEmpty(t, resp.InviteToken)

		require.Equal(t, "alice@example.com", env.mail.to)
		require.Contains(t, env.mail.html, "accept-invite?token="+resp.InviteToken)
	})
}

func TestValidateInviteContract(t *testing.T) {
	env := newTestEnv(t)
	org := env.seedOrg(t)
	admin, adminToken := env.seedUser(t, org.ID, domain.RoleAdmin)

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invites/validate", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Token is required", decode[ErrorResponse](t, rec).Message)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/invites/validate?token=nope", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("valid token returns the record", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/invites", adminToken, CreateInviteRequest{
			Email: "alice@example.com", Role: domain.RoleContributor,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		token := decode[CreateInviteResponse](t, rec).InviteToken

		rec = env.do(t, http.MethodGet, "/v1/invites/validate?token="+token, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[ValidateInviteResponse](t, rec)
		require.Equal(t, "alice@example.com", resp.Invite.Email)
		require.Equal(t, domain.RoleContributor, resp.Invite.Role)
		require.Equal(t, org.Name, resp.Invite.OrganizationName)
	})

	t.Run("expired token", func(t *testing.T) {
		raw := "expired-token"
		require.NoError(t, env.store.Invites().CreateInvite(context.Background(), domain.Invite{
			ID:               idx.New().String(),
			Email:            "late@example.com",
			Role:             domain.RoleViewer,
			TokenHash:        cryptox.FingerprintToken(raw),
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			InviterName:      admin.Name,
			CreatedBy:        admin.ID,
			ExpiresAt:        time.Now().Add(-time.Hour),
		}))

		rec := env.do(t, http.MethodGet, "/v1/invites/validate?token="+raw, "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invitation has expired", decode[ErrorResponse](t, rec).Message)
	})
}

func TestAcceptInviteAndLogin(t *testing.T) {
	env := newTestEnv(t)
	org := env.seedOrg(t)
	_, adminToken := env.seedUser(t, org.ID, domain.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/v1/invites", adminToken, CreateInviteRequest{
		Email: "carol@example.com", Role: domain.RoleContributor,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[CreateInviteResponse](t, rec).InviteToken

	rec = env.do(t, http.MethodPost, "/v1/invites/accept", "", AcceptInviteRequest{
		Token: token, Name: "Carol", Password: "s3cret-passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	accept := decode[AcceptInviteResponse](t, rec)
	require.True(t, accept.Success)
	require.Equal(t, "carol@example.com", accept.Email)

	// The invite is single-use.
	rec = env.do(t, http.MethodPost, "/v1/invites/accept", "", AcceptInviteRequest{
		Token: token, Name: "Mallory", Password: "other-passw0rd",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invitation has already been used", decode[ErrorResponse](t, rec).Message)

	// The new account can log in and sees its own profile.
	rec = env.do(t, http.MethodPost, "/v1/sessions", "", CreateSessionRequest{
		Email: "carol@example.com", Password: "s3cret-passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[CreateSessionResponse](t, rec)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, domain.RoleContributor, session.User.Role)

	rec = env.do(t, http.MethodGet, "/v1/userinfo", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "carol@example.com", decode[UserResponse](t, rec).Email)
}

func TestOnboardingContract(t *testing.T) {
	env := newTestEnv(t)

	req := OnboardingRequest{
		OrganizationName: "Nordwind AS",
		Sector:           "Energy",
		Country:          "NO",
		EmployeeCount:    120,
		ReportingYear:    2025,
		AdminEmail:       "kim@nordwind.example",
		AdminName:        "Kim",
		AdminPassword:    "correct-horse-battery",
	}

	rec := env.do(t, http.MethodPost, "/v1/onboarding", "", req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[OnboardingResponse](t, rec)
	require.Equal(t, "Nordwind AS", resp.Organization.Name)
	require.Equal(t, domain.RoleAdmin, resp.User.Role)
	require.Equal(t, resp.Organization.ID, resp.User.OrganizationID)

	// Reusing the admin email fails.
	req.OrganizationName = "Second Org"
	rec = env.do(t, http.MethodPost, "/v1/onboarding", "", req)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrganizationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	org := env.seedOrg(t)
	_, adminToken := env.seedUser(t, org.ID, domain.RoleAdmin)
	_, viewerToken := env.seedUser(t, org.ID, domain.RoleViewer)

	rec := env.do(t, http.MethodGet, "/v1/organizations/"+org.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, org.Name, decode[OrganizationResponse](t, rec).Name)

	// Another organization's id reads as not found.
	rec = env.do(t, http.MethodGet, "/v1/organizations/other-org", adminToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Viewers lack the write scope.
	rec = env.do(t, http.MethodPatch, "/v1/organizations/"+org.ID, viewerToken, UpdateOrganizationRequest{Name: "Hacked"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPatch, "/v1/organizations/"+org.ID, adminToken, UpdateOrganizationRequest{
		Name: "Acme SE", EmployeeCount: 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[OrganizationResponse](t, rec)
	require.Equal(t, "Acme SE", updated.Name)
	require.Equal(t, 500, updated.EmployeeCount)
	require.Equal(t, "DE", updated.Country)
}

func TestAssessmentAndReportFlow(t *testing.T) {
	env := newTestEnv(t)
	org := env.seedOrg(t)
	_, token := env.seedUser(t, org.ID, domain.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/v1/assessments", token, StartAssessmentRequest{Year: 2025})
	require.Equal(t, http.StatusOK, rec.Code)
	assessment := decode[AssessmentResponse](t, rec)
	require.Equal(t, domain.AssessmentDraft, assessment.Status)

	rec = env.do(t, http.MethodPut, "/v1/assessments/"+assessment.ID+"/scores", token, SubmitScoresRequest{
		Scores: []ScoreEntry{
			{TopicCode: "E1", ImpactScore: 5, FinancialScore: 4},
			{TopicCode: "S1", ImpactScore: 1, FinancialScore: 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	scored := decode[AssessmentResponse](t, rec)
	require.Equal(t, []string{"E1"}, scored.MaterialTopics)

	rec = env.do(t, http.MethodPost, "/v1/assessments/"+assessment.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.AssessmentCompleted, decode[AssessmentResponse](t, rec).Status)

	rec = env.do(t, http.MethodPost, "/v1/reports", token, CreateReportRequest{AssessmentID: assessment.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ReportResponse](t, rec)
	require.Len(t, report.Sections, 1)
	require.Equal(t, "E1", report.Sections[0].TopicCode)

	// Generated text lands in the section body.
	sectionPath := fmt.Sprintf("/v1/reports/%s/sections/%s", report.ID, report.Sections[0].ID)
	rec = env.do(t, http.MethodPost, sectionPath+"/suggest", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, decode[SectionResponse](t, rec).Body, org.Name)

	rec = env.do(t, http.MethodPost, "/v1/reports/"+report.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.ReportPublished, decode[ReportResponse](t, rec).Status)

	// Published reports are read-only.
	rec = env.do(t, http.MethodPut, sectionPath, token, UpdateSectionRequest{Body: "too late"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[HealthResponse](t, rec).Status)

	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)

	rec = env.do(t, http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jwks := decode[jwtx.JWKS](t, rec)
	require.NotEmpty(t, jwks.Keys)
}
