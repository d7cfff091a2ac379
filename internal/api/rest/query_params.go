package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/constants"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"
)

// LeaderboardQueryParams holds query parameters for GET /leaderboard
type LeaderboardQueryParams struct {
	Period types.Period `form:"period,default=1d"`
	Limit  int          `form:"limit,default=20"`
}

// Validate validates the leaderboard query parameters
func (p *LeaderboardQueryParams) Validate() error {
	if !p.Period.Valid() {
		return fmt.Errorf("invalid period: %s (expected 1d, 7d or 30d)", p.Period)
	}
	if p.Limit < 1 || p.Limit > constants.MAX_PAGE_SIZE {
		return fmt.Errorf("limit must be between 1 and %d", constants.MAX_PAGE_SIZE)
	}
	return nil
}

// BuyerQueryParams holds query parameters for GET /buyers/:address
type BuyerQueryParams struct {
	Limit int `form:"limit,default=20"`
}

// Validate validates the buyer query parameters
func (p *BuyerQueryParams) Validate() error {
	if p.Limit < 1 || p.Limit > constants.MAX_PAGE_SIZE {
		return fmt.Errorf("limit must be between 1 and %d", constants.MAX_PAGE_SIZE)
	}
	return nil
}

// ParseLeaderboardQuery parses query parameters for GET /leaderboard
func ParseLeaderboardQuery(c *gin.Context) (*LeaderboardQueryParams, error) {
	var params LeaderboardQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ParseBuyerQuery parses query parameters for GET /buyers/:address
func ParseBuyerQuery(c *gin.Context) (*BuyerQueryParams, error) {
	var params BuyerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}
