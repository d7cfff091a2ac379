package constants

import "github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"

const (
	MAX_ADDRESSES_PER_REQUEST = 100
	MAX_PAGE_SIZE             = 100
	DEFAULT_LEADERBOARD_LIMIT = 20
	DEFAULT_ACTIVITY_LIMIT    = 20
	DEFAULT_PERIOD            = types.Period1d
)
