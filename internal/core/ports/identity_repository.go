package ports

import (
	"context"

	"github.com/jobox/jobox-api/internal/core/domain"
)

// IdentityRepository defines the interface for identity persistence. The
// session store is its only writer.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}
