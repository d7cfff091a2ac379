package dto

import (
	"fmt"

	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/constants"
	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
)

// ResolveIdentitiesRequest represents the request body for bulk identity resolution
type ResolveIdentitiesRequest struct {
	Addresses []string `json:"addresses"`
}

// Validate validates the request body. Address format is checked by the resolver.
func (r *ResolveIdentitiesRequest) Validate() error {
	if len(r.Addresses) == 0 {
		return apierrors.NewValidationError("addresses is required")
	}
	if len(r.Addresses) > constants.MAX_ADDRESSES_PER_REQUEST {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d addresses allowed", constants.MAX_ADDRESSES_PER_REQUEST))
	}
	return nil
}
