package repository

import "context"

// Repositories bundles the three persistence ports so that a mutation and
// its audit entry can be committed inside one logical transaction.
type Repositories struct {
	Thresholds     ThresholdRepository
	Audit          AuditRepository
	Configurations ConfigurationRepository
}

// Atomic runs a function against transaction-bound repositories. The
// callback's writes either all commit or all roll back; a store update is
// never persisted without its paired audit entry.
type Atomic interface {
	InTx(ctx context.Context, fn func(r Repositories) error) error
}
