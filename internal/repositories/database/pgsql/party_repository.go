package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahayFarms/farm_books_app/internal/apperrors"
	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	"github.com/SahayFarms/farm_books_app/internal/utils/pagination"
)

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, tenant_id, name, roles, phone, notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (*domain.Party, error) {
	var p domain.Party
	var roles []string
	err := row.Scan(
		&p.PartyID,
		&p.TenantID,
		&p.Name,
		&roles,
		&p.Phone,
		&p.Notes,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan party row: %w", err)
	}
	p.Roles = make([]domain.PartyRole, len(roles))
	for i, role := range roles {
		p.Roles[i] = domain.PartyRole(role)
	}
	return &p, nil
}

func partyRoles(p domain.Party) []string {
	roles := make([]string, len(p.Roles))
	for i, role := range p.Roles {
		roles[i] = string(role)
	}
	return roles
}

// FindPartyByID retrieves a party by ID within a tenant.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, tenantID, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE tenant_id = $1 AND party_id = $2;`
	return scanParty(r.Pool.QueryRow(ctx, query, tenantID, partyID))
}

// ListParties retrieves a token-paginated list of parties, optionally filtered
// by role.
func (r *PgxPartyRepository) ListParties(ctx context.Context, tenantID string, role *domain.PartyRole, limit int, nextToken *string) ([]domain.Party, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{tenantID}
	query := `SELECT ` + partyColumns + ` FROM parties WHERE tenant_id = $1`
	if role != nil {
		args = append(args, string(*role))
		query += fmt.Sprintf(" AND $%d = ANY(roles)", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, fields[0], fields[1])
		query += fmt.Sprintf(" AND (name, party_id) > ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY name, party_id LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, nil, err
		}
		parties = append(parties, *p)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating party rows: %w", rows.Err())
	}

	var token *string
	if len(parties) > limit {
		parties = parties[:limit]
		last := parties[len(parties)-1]
		t := pagination.EncodeMultiFieldToken(last.Name, last.PartyID)
		token = &t
	}
	return parties, token, nil
}

// SaveParty inserts a new party.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	query := `
		INSERT INTO parties (party_id, tenant_id, name, roles, phone, notes, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		party.PartyID,
		party.TenantID,
		party.Name,
		partyRoles(party),
		party.Phone,
		party.Notes,
		party.IsActive,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: party %s already exists", apperrors.ErrDuplicate, party.PartyID)
		}
		return fmt.Errorf("failed to save party %s: %w", party.PartyID, err)
	}
	return nil
}

// UpdateParty updates a party's mutable fields.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	query := `
		UPDATE parties
		SET name = $3, roles = $4, phone = $5, notes = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE tenant_id = $1 AND party_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		party.TenantID,
		party.PartyID,
		party.Name,
		partyRoles(party),
		party.Phone,
		party.Notes,
		party.IsActive,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update party %s: %w", party.PartyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
