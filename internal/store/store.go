package store

import (
	"context"
	"errors"

	"github.com/carbonpath/csrd/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to actively stop people from accidentally doing
// transactions within transactions.
//
// Callers must treat ErrNotFound and any other error as distinct failure
// modes: "no matching record" is a clean miss, anything else means the
// backend itself misbehaved. The invite flow depends on that distinction.
type Store interface {
	Organizations() Organizations
	Users() Users
	Invites() Invites
	Assessments() Assessments
	Reports() Reports

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Organizations interface {
	// CreateOrganization inserts a new organization (id is ULID).
	CreateOrganization(ctx context.Context, o domain.Organization) error

	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// UpdateOrganization replaces the mutable profile fields and bumps
	// updated_at.
	UpdateOrganization(ctx context.Context, o domain.Organization) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and to enforce unique accounts.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByTokenHash returns an invite by fingerprint regardless of
	// expiry or redemption state. Those checks belong to the validator,
	// not the store.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// MarkInviteRedeemed stamps redeemed_at/redeemed_by, making the
	// token unusable (transaction-friendly).
	MarkInviteRedeemed(ctx context.Context, inviteID string, redeemedByUserID string) error

	// DeleteExpiredInvites removes unredeemed invites past their expiry
	// (housekeeping).
	DeleteExpiredInvites(ctx context.Context) error
}

type Assessments interface {
	// CreateAssessment inserts a new draft assessment.
	CreateAssessment(ctx context.Context, a domain.Assessment) error

	// GetAssessmentByID returns an assessment by id.
	GetAssessmentByID(ctx context.Context, id string) (domain.Assessment, error)

	// UpsertScore inserts or replaces one topic score of an assessment.
	UpsertScore(ctx context.Context, s domain.TopicScore) error

	// ListScores returns all scores of an assessment ordered by topic code.
	ListScores(ctx context.Context, assessmentID string) ([]domain.TopicScore, error)

	// CompleteAssessment flips status to completed and bumps updated_at.
	CompleteAssessment(ctx context.Context, id string) error

	// ListTopics returns the seeded ESRS topic catalog ordered by code.
	ListTopics(ctx context.Context) ([]domain.Topic, error)

	// GetTopicByCode returns one catalog topic.
	GetTopicByCode(ctx context.Context, code string) (domain.Topic, error)
}

type Reports interface {
	// CreateReport inserts a new draft report.
	CreateReport(ctx context.Context, r domain.Report) error

	// GetReportByID returns a report by id.
	GetReportByID(ctx context.Context, id string) (domain.Report, error)

	// CreateSection inserts one report section.
	CreateSection(ctx context.Context, s domain.Section) error

	// ListSections returns a report's sections ordered by position.
	ListSections(ctx context.Context, reportID string) ([]domain.Section, error)

	// GetSectionByID returns one section of the given report.
	GetSectionByID(ctx context.Context, reportID, sectionID string) (domain.Section, error)

	// UpdateSectionBody replaces the section body and bumps updated_at.
	UpdateSectionBody(ctx context.Context, sectionID, body string) error

	// PublishReport flips status to published and stamps published_at.
	PublishReport(ctx context.Context, id string) error
}
