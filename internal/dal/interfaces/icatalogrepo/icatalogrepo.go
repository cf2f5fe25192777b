package icatalogrepo

import (
	"context"

	"github.com/supremewaffle/order-svc/internal/service/models/catalog"
)

// ICatalogRepository is an interface for the customization catalog
// postgres repository.
type ICatalogRepository interface {
	ListGroups(ctx context.Context) ([]catalog.CustomizationGroup, error)
}
