package ports

import (
	"context"

	"github.com/renato0307/shellbox/internal/domain"
)

// RepositoryLister lists repositories visible to the authenticated user
type RepositoryLister interface {
	GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListRepositories(ctx context.Context, org string) ([]domain.Repository, error)
}
