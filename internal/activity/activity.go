// Package activity tracks audit submission activity per location.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// Service counts audits recorded for a location within a time window.
// Gives operators a re-audit frequency signal for a flat or facility.
type Service struct {
	repo  domain.Repository
	cache domain.Cache
	db    *sql.DB // Direct DB access for custom queries
}

// NewService creates a new activity service.
func NewService(repo domain.Repository, cache domain.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// GetAuditCount returns the number of audits recorded for a location
// within a time window.
func (s *Service) GetAuditCount(ctx context.Context, tenantID, location string, windowSecs int) (int64, error) {
	if tenantID == "" || location == "" {
		return 0, fmt.Errorf("tenantID and location are required")
	}

	since := time.Now().Add(-time.Duration(windowSecs) * time.Second)

	if s.db != nil {
		return s.countFromDB(ctx, tenantID, location, since)
	}

	if s.repo != nil {
		return s.countFromRepo(ctx, tenantID, location, since)
	}

	return 0, fmt.Errorf("no data source available")
}

// RecordSubmission bumps the rolling submission counter for a location.
// Counter-backed so repeated submissions within the window are visible
// without a database round trip.
func (s *Service) RecordSubmission(ctx context.Context, tenantID, location string, window time.Duration) (int64, error) {
	if tenantID == "" || location == "" {
		return 0, fmt.Errorf("tenantID and location are required")
	}
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.IncrementCounter(ctx, tenantID, "activity:"+location, window)
}

// countFromDB queries the database directly for audit count.
func (s *Service) countFromDB(ctx context.Context, tenantID, location string, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM audits
		WHERE tenant_id = ?
		AND location = ?
		AND created_at >= ?
	`

	var count int64
	err := s.db.QueryRowContext(ctx, query, tenantID, location, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audits: %w", err)
	}

	return count, nil
}

// countFromRepo uses the repository to get audits and count them.
func (s *Service) countFromRepo(ctx context.Context, tenantID, location string, since time.Time) (int64, error) {
	audits, err := s.repo.GetAuditsByLocation(ctx, tenantID, location, since)
	if err != nil {
		return 0, fmt.Errorf("failed to get audits: %w", err)
	}
	return int64(len(audits)), nil
}
