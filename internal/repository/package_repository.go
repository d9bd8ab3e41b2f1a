package repository

import (
    "context"
    "database/sql"

    "github.com/chriskke/teeko-booking-service/internal/model"
)

// PackageRepo provides read access to the SIM package catalog.  The
// catalog is managed elsewhere; the booking service only lists and
// resolves packages, so no write operations are exposed here.
type PackageRepo struct {
    db *sql.DB
}

// NewPackageRepo constructs a PackageRepo given a DB handle.
func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

// GetActive returns one active package by id.  ErrPackageNotFound is
// returned when the package does not exist or has been retired, so a
// booking can never be created against a stale catalog entry.
func (r *PackageRepo) GetActive(ctx context.Context, id uint64) (*model.SimPackage, error) {
    const q = `SELECT id, name, price, data_quota, is_active, created_at, updated_at
               FROM sim_packages WHERE id = ? AND is_active = 1`
    var p model.SimPackage
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &p.ID, &p.Name, &p.Price, &p.DataQuota, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, ErrPackageNotFound
    }
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// ListActive returns all bookable packages ordered by name.
func (r *PackageRepo) ListActive(ctx context.Context) ([]model.SimPackage, error) {
    const q = `SELECT id, name, price, data_quota, is_active, created_at, updated_at
               FROM sim_packages WHERE is_active = 1 ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.SimPackage{}
    for rows.Next() {
        var p model.SimPackage
        if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DataQuota, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
