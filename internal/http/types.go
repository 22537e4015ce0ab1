package http

import (
	"time"

	"github.com/carbonpath/csrd/internal/domain"
	"github.com/carbonpath/csrd/internal/service"
)

// ErrorResponse is the uniform error shape of every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// CreateInviteRequest is the admin-facing invite form.
type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateInviteResponse returns the raw invite token to the issuer.
type CreateInviteResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	InviteToken string `json:"inviteToken"`
}

// InviteRecord is the public view of an invite. The token fingerprint
// and internal ids never leave the service.
type InviteRecord struct {
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	OrganizationName string    `json:"organizationName"`
	InviterName      string    `json:"inviterName"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// ValidateInviteResponse wraps the record for the acceptance page.
type ValidateInviteResponse struct {
	Invite InviteRecord `json:"invite"`
}

func toInviteRecord(inv domain.Invite) InviteRecord {
	return InviteRecord{
		Email:            inv.Email,
		Role:             inv.Role,
		OrganizationName: inv.OrganizationName,
		InviterName:      inv.InviterName,
		ExpiresAt:        inv.ExpiresAt,
	}
}

// AcceptInviteRequest redeems an invite token into an account.
type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AcceptInviteResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

// CreateSessionRequest is the login form.
type CreateSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateSessionResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:         u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
	}
}

// OnboardingRequest is the signup form creating an organization and its
// founding admin.
type OnboardingRequest struct {
	OrganizationName string `json:"organizationName"`
	Sector           string `json:"sector"`
	Country          string `json:"country"`
	EmployeeCount    int    `json:"employeeCount"`
	ReportingYear    int    `json:"reportingYear"`
	AdminEmail       string `json:"adminEmail"`
	AdminName        string `json:"adminName"`
	AdminPassword    string `json:"adminPassword"`
}

type OnboardingResponse struct {
	Organization OrganizationResponse `json:"organization"`
	User         UserResponse         `json:"user"`
}

// OrganizationResponse is the public view of an organization profile.
type OrganizationResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Country       string `json:"country"`
	EmployeeCount int    `json:"employeeCount"`
	ReportingYear int    `json:"reportingYear"`
}

func toOrganizationResponse(o domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:            o.ID,
		Name:          o.Name,
		Sector:        o.Sector,
		Country:       o.Country,
		EmployeeCount: o.EmployeeCount,
		ReportingYear: o.ReportingYear,
	}
}

// UpdateOrganizationRequest carries a partial profile update. Empty
// fields are left unchanged.
type UpdateOrganizationRequest struct {
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Country       string `json:"country"`
	EmployeeCount int    `json:"employeeCount"`
	ReportingYear int    `json:"reportingYear"`
}

// StartAssessmentRequest opens a materiality assessment run.
type StartAssessmentRequest struct {
	Year int `json:"year"`
}

// ScoreEntry is one topic rating in a score submission.
type ScoreEntry struct {
	TopicCode      string `json:"topicCode"`
	ImpactScore    int    `json:"impactScore"`
	FinancialScore int    `json:"financialScore"`
}

type SubmitScoresRequest struct {
	Scores []ScoreEntry `json:"scores"`
}

type AssessmentResponse struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	Year           int          `json:"year"`
	Status         string       `json:"status"`
	Scores         []ScoreEntry `json:"scores,omitempty"`
	MaterialTopics []string     `json:"materialTopics,omitempty"`
}

// TopicResponse is one entry of the ESRS topic catalog.
type TopicResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateReportRequest opens a draft report over a completed assessment.
type CreateReportRequest struct {
	AssessmentID string `json:"assessmentId"`
	Title        string `json:"title"`
}

type SectionResponse struct {
	ID        string `json:"id"`
	TopicCode string `json:"topicCode"`
	Heading   string `json:"heading"`
	Body      string `json:"body"`
	Position  int    `json:"position"`
}

type ReportResponse struct {
	ID           string            `json:"id"`
	AssessmentID string            `json:"assessmentId"`
	Year         int               `json:"year"`
	Title        string            `json:"title"`
	Status       string            `json:"status"`
	PublishedAt  *time.Time        `json:"publishedAt,omitempty"`
	Sections     []SectionResponse `json:"sections,omitempty"`
}

// UpdateSectionRequest replaces a section body.
type UpdateSectionRequest struct {
	Body string `json:"body"`
}

func toReportResponse(r service.ReportWithSections) ReportResponse {
	resp := ReportResponse{
		ID:           r.Report.ID,
		AssessmentID: r.Report.AssessmentID,
		Year:         r.Report.Year,
		Title:        r.Report.Title,
		Status:       r.Report.Status,
		PublishedAt:  r.Report.PublishedAt,
	}
	for _, s := range r.Sections {
		resp.Sections = append(resp.Sections, toSectionResponse(s))
	}
	return resp
}

func toSectionResponse(s domain.Section) SectionResponse {
	return SectionResponse{
		ID:        s.ID,
		TopicCode: s.TopicCode,
		Heading:   s.Heading,
		Body:      s.Body,
		Position:  s.Position,
	}
}
