// Package repository provides data persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-safety/kestrel/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers.
type SQLRepository struct {
	db     *sql.DB
	driver string
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:     db,
		driver: cfg.Driver,
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas() {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// SaveAudit stores an audit with tenant isolation.
func (r *SQLRepository) SaveAudit(ctx context.Context, tenantID string, audit *domain.Audit) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	answers, err := json.Marshal(audit.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `
		INSERT INTO audits (
			id, tenant_id, auditor, location, audit_date, answers, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		audit.ID, tenantID, audit.Auditor, audit.Location,
		audit.AuditDate, string(answers), audit.CreatedAt,
	)
	return err
}

// GetAudit retrieves an audit by ID with tenant isolation.
func (r *SQLRepository) GetAudit(ctx context.Context, tenantID string, auditID string) (*domain.Audit, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, auditor, location, audit_date, answers, created_at
		FROM audits
		WHERE tenant_id = ? AND id = ?
	`

	var audit domain.Audit
	var answers string

	err := r.db.QueryRowContext(ctx, r.rebind(query), tenantID, auditID).Scan(
		&audit.ID, &audit.TenantID, &audit.Auditor, &audit.Location,
		&audit.AuditDate, &answers, &audit.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if answers != "" {
		json.Unmarshal([]byte(answers), &audit.Answers)
	}

	return &audit, nil
}

// GetAuditsByLocation retrieves audits for a location with tenant isolation.
func (r *SQLRepository) GetAuditsByLocation(ctx context.Context, tenantID string, location string, since time.Time) ([]*domain.Audit, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, auditor, location, audit_date, answers, created_at
		FROM audits
		WHERE tenant_id = ?
		  AND location = ?
		  AND created_at >= ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID, location, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*domain.Audit
	for rows.Next() {
		var audit domain.Audit
		var answers string

		if err := rows.Scan(
			&audit.ID, &audit.TenantID, &audit.Auditor, &audit.Location,
			&audit.AuditDate, &answers, &audit.CreatedAt,
		); err != nil {
			return nil, err
		}

		if answers != "" {
			json.Unmarshal([]byte(answers), &audit.Answers)
		}

		audits = append(audits, &audit)
	}

	return audits, rows.Err()
}

// SaveAssessment stores an assessment result with tenant isolation.
func (r *SQLRepository) SaveAssessment(ctx context.Context, tenantID string, assessment *domain.Assessment) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	result, err := json.Marshal(assessment.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	notices, _ := json.Marshal(assessment.Notices)
	metadata, _ := json.Marshal(assessment.Metadata)

	query := `
		INSERT INTO assessments (
			id, tenant_id, audit_id, score, level, result, notices, timestamp, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, r.rebind(query),
		assessment.ID, tenantID, assessment.AuditID,
		assessment.Result.Score, string(assessment.Result.Level),
		string(result), string(notices), assessment.Timestamp, string(metadata),
	)
	return err
}

// GetAssessment retrieves an assessment by ID with tenant isolation.
func (r *SQLRepository) GetAssessment(ctx context.Context, tenantID string, assessmentID string) (*domain.Assessment, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, audit_id, result, notices, timestamp, metadata
		FROM assessments
		WHERE tenant_id = ? AND id = ?
	`

	return r.scanAssessment(r.db.QueryRowContext(ctx, r.rebind(query), tenantID, assessmentID))
}

// GetAssessmentByAudit retrieves the latest assessment for an audit.
func (r *SQLRepository) GetAssessmentByAudit(ctx context.Context, tenantID string, auditID string) (*domain.Assessment, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, audit_id, result, notices, timestamp, metadata
		FROM assessments
		WHERE tenant_id = ? AND audit_id = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	return r.scanAssessment(r.db.QueryRowContext(ctx, r.rebind(query), tenantID, auditID))
}

func (r *SQLRepository) scanAssessment(row *sql.Row) (*domain.Assessment, error) {
	var assessment domain.Assessment
	var result, notices, metadata string

	err := row.Scan(
		&assessment.ID, &assessment.TenantID, &assessment.AuditID,
		&result, &notices, &assessment.Timestamp, &metadata,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(result), &assessment.Result); err != nil {
		return nil, fmt.Errorf("failed to parse assessment result: %w", err)
	}
	if notices != "" {
		json.Unmarshal([]byte(notices), &assessment.Notices)
	}
	if metadata != "" {
		json.Unmarshal([]byte(metadata), &assessment.Metadata)
	}

	return &assessment, nil
}

// SaveAdvisoryRule stores an advisory rule with tenant isolation.
func (r *SQLRepository) SaveAdvisoryRule(ctx context.Context, tenantID string, rule *domain.AdvisoryRule) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	enabled := 0
	if rule.Enabled {
		enabled = 1
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO advisory_rules (
			id, tenant_id, name, description, version, expression, message, severity, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, tenant_id, version) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			expression = excluded.expression,
			message = excluded.message,
			severity = excluded.severity,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		rule.ID, tenantID, rule.Name, rule.Description,
		rule.Version, rule.Expression, rule.Message, string(rule.Severity), enabled,
		now, now,
	)
	return err
}

// GetAdvisoryRule retrieves an advisory rule with tenant isolation.
func (r *SQLRepository) GetAdvisoryRule(ctx context.Context, tenantID string, ruleID string) (*domain.AdvisoryRule, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, name, description, version, expression, message, severity, enabled, created_at, updated_at
		FROM advisory_rules
		WHERE tenant_id = ? AND id = ? AND enabled = 1
		ORDER BY version DESC
		LIMIT 1
	`

	var rule domain.AdvisoryRule
	var severity string
	var enabled int

	err := r.db.QueryRowContext(ctx, r.rebind(query), tenantID, ruleID).Scan(
		&rule.ID, &rule.TenantID, &rule.Name, &rule.Description,
		&rule.Version, &rule.Expression, &rule.Message, &severity, &enabled,
		&rule.CreatedAt, &rule.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rule.Severity = domain.Severity(severity)
	rule.Enabled = enabled == 1

	return &rule, nil
}

// ListAdvisoryRules retrieves all active advisory rules for a tenant.
func (r *SQLRepository) ListAdvisoryRules(ctx context.Context, tenantID string) ([]*domain.AdvisoryRule, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		SELECT id, tenant_id, name, description, version, expression, message, severity, enabled, created_at, updated_at
		FROM advisory_rules
		WHERE tenant_id = ? AND enabled = 1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.AdvisoryRule
	for rows.Next() {
		var rule domain.AdvisoryRule
		var severity string
		var enabled int

		if err := rows.Scan(
			&rule.ID, &rule.TenantID, &rule.Name, &rule.Description,
			&rule.Version, &rule.Expression, &rule.Message, &severity, &enabled,
			&rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rule.Severity = domain.Severity(severity)
		rule.Enabled = enabled == 1
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// DeleteAdvisoryRule soft-deletes an advisory rule by setting enabled = 0.
func (r *SQLRepository) DeleteAdvisoryRule(ctx context.Context, tenantID string, ruleID string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	query := `
		UPDATE advisory_rules
		SET enabled = 0, updated_at = ?
		WHERE tenant_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, r.rebind(query), time.Now().UTC(), tenantID, ruleID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
