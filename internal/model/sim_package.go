package model

import "time"

// SimPackage is a purchasable travel-eSIM plan from the catalog, as
// stored in the `sim_packages` table.  Bookings reference packages by
// ID; the display name and formatted price are denormalised into
// snapshots so list views need no extra lookup.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name (e.g. "Global eSIM 10GB").
//  Price     – formatted unit price string as shown to customers.
//  DataQuota – plan allowance description (e.g. "10GB / 30 days").
//  IsActive  – whether the package is currently bookable.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type SimPackage struct {
    ID        uint64    // sim_packages.id
    Name      string    // sim_packages.name
    Price     string    // sim_packages.price
    DataQuota string    // sim_packages.data_quota
    IsActive  bool      // sim_packages.is_active
    CreatedAt time.Time // sim_packages.created_at
    UpdatedAt time.Time // sim_packages.updated_at
}
