// Package domain defines the core interfaces and types for Kestrel.
package domain

import (
	"context"
	"time"
)

// Repository defines the interface for data persistence.
// All methods require tenantID for strict multi-tenancy isolation.
type Repository interface {
	// Audit operations
	SaveAudit(ctx context.Context, tenantID string, audit *Audit) error
	GetAudit(ctx context.Context, tenantID string, auditID string) (*Audit, error)
	GetAuditsByLocation(ctx context.Context, tenantID string, location string, since time.Time) ([]*Audit, error)

	// Assessment results
	SaveAssessment(ctx context.Context, tenantID string, assessment *Assessment) error
	GetAssessment(ctx context.Context, tenantID string, assessmentID string) (*Assessment, error)
	GetAssessmentByAudit(ctx context.Context, tenantID string, auditID string) (*Assessment, error)

	// Advisory rule configuration
	SaveAdvisoryRule(ctx context.Context, tenantID string, rule *AdvisoryRule) error
	GetAdvisoryRule(ctx context.Context, tenantID string, ruleID string) (*AdvisoryRule, error)
	ListAdvisoryRules(ctx context.Context, tenantID string) ([]*AdvisoryRule, error)
	DeleteAdvisoryRule(ctx context.Context, tenantID string, ruleID string) error

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
