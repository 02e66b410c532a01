package catalog

import (
	"context"
	"fmt"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/model"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

// GetPackageByID returns the full package row, or nil if the id does not exist.
func (s *Service) GetPackageByID(ctx context.Context, id int64) (*model.Package, error) {
	p, err := s.database.FindPackageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding package %d: %w", id, err)
	}
	return p, nil
}

// GetPackage returns the package named name under key, or nil if there is
// none. When a name was imported more than once the newest row wins.
func (s *Service) GetPackage(ctx context.Context, key registry.Key, name string) (*model.Package, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	p, err := s.database.FindPackageByKey(ctx, key, name)
	if err != nil {
		return nil, fmt.Errorf("finding package %s/%s: %w", key, name, err)
	}
	return p, nil
}
