package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/service"
	"github.com/carbonpath/csrd/internal/store"
	"github.com/carbonpath/csrd/pkg/httpx"
	"github.com/carbonpath/csrd/pkg/jwtx"
	"github.com/carbonpath/csrd/pkg/slogx"

	_ "github.com/carbonpath/csrd/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	SessionService      *service.SessionService
	OnboardingService   *service.OnboardingService
	OrganizationService *service.OrganizationService
	InviteService       *service.InviteService
	AssessmentService   *service.AssessmentService
	ReportService       *service.ReportService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerOnboarding()
	r.registerOrganizations()
	r.registerInvites()
	r.registerAssessments()
	r.registerReports()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CarbonPath CSRD API
//	@version		0.1.0
//	@description	Backend for the CarbonPath CSRD compliance platform: organization onboarding, team invites, double-materiality assessments, and report building.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs verifiable via the JWKS endpoint.
//
//	@contact.name				CarbonPath Team
//	@contact.url				https://github.com/carbonpath/csrd
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	sessionHandler := &SessionHandler{SessionService: r.SessionService}

	// POST /sessions - strict rate limit by IP (login attempts)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	userInfoHandler := &UserInfoHandler{Store: r.store}
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(userInfoHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerOnboarding() {
	// POST /onboarding - public signup, strict rate limit by IP
	h := &OnboardingHandler{OnboardingService: r.OnboardingService}
	r.Mux.Handle("POST /v1/onboarding",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOrganizations() {
	h := &OrganizationHandler{OrganizationService: r.OrganizationService}

	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeOrgRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeOrgWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/organizations/{id}", securedGet)
	r.Mux.Handle("PATCH /v1/organizations/{id}", securedUpdate)
}

func (r *Router) registerInvites() {
	createHandler := &InviteCreateHandler{InviteService: r.InviteService}
	validateHandler := &InviteValidateHandler{InviteService: r.InviteService}
	acceptHandler := &InviteAcceptHandler{InviteService: r.InviteService}

	// POST /invites - admin operation, moderate rate limit by user
	securedCreate := httpx.Chain(createHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeInvitesWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /v1/invites", securedCreate)

	// GET /invites/validate - public acceptance page lookup
	r.Mux.Handle("GET /v1/invites/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /invites/accept - public signup endpoint, strict rate limit by IP
	r.Mux.Handle("POST /v1/invites/accept",
		httpx.Chain(acceptHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAssessments() {
	h := &AssessmentHandler{AssessmentService: r.AssessmentService}

	securedStart := httpx.Chain(http.HandlerFunc(h.HandleStart),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeAssessmentsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedScores := httpx.Chain(http.HandlerFunc(h.HandleSubmitScores),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeAssessmentsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeAssessmentsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedComplete := httpx.Chain(http.HandlerFunc(h.HandleComplete),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeAssessmentsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedTopics := httpx.Chain(http.HandlerFunc(h.HandleListTopics),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeAssessmentsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/assessments", securedStart)
	r.Mux.Handle("PUT /v1/assessments/{id}/scores", securedScores)
	r.Mux.Handle("GET /v1/assessments/{id}", securedGet)
	r.Mux.Handle("POST /v1/assessments/{id}/complete", securedComplete)
	r.Mux.Handle("GET /v1/topics", securedTopics)
}

func (r *Router) registerReports() {
	h := &ReportHandler{ReportService: r.ReportService}

	securedCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeReportsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeReportsRead),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedSection := httpx.Chain(http.HandlerFunc(h.HandleUpdateSection),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeReportsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedSuggest := httpx.Chain(http.HandlerFunc(h.HandleSuggestSection),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeReportsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedPublish := httpx.Chain(http.HandlerFunc(h.HandlePublish),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeReportsWrite),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/reports", securedCreate)
	r.Mux.Handle("GET /v1/reports/{id}", securedGet)
	r.Mux.Handle("PUT /v1/reports/{id}/sections/{sectionID}", securedSection)
	r.Mux.Handle("POST /v1/reports/{id}/sections/{sectionID}/suggest", securedSuggest)
	r.Mux.Handle("POST /v1/reports/{id}/publish", securedPublish)
}

func (r *Router) registerSystem() {
	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
