package dto

import (
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// IdentitiesResponse represents the response for bulk identity resolution
type IdentitiesResponse struct {
	Identities []domain.ResolvedIdentity `json:"identities"`
}

// LeaderboardEntry is one ranked buyer with its display identity
type LeaderboardEntry struct {
	Rank         int                     `json:"rank"`
	Address      string                  `json:"address"`
	BuyCount     int64                   `json:"buyCount"`
	UniqueTokens int64                   `json:"uniqueTokens"`
	LastActive   time.Time               `json:"lastActive"`
	Identity     domain.ResolvedIdentity `json:"identity"`
}

// LeaderboardResponse represents the leaderboard of one period
type LeaderboardResponse struct {
	Period  types.Period       `json:"period"`
	Since   time.Time          `json:"since"`
	Entries []LeaderboardEntry `json:"entries"`
}

// BuyActivity is one buy in an activity list
type BuyActivity struct {
	TxHash    string                 `json:"txHash"`
	PostToken string                 `json:"postToken"`
	BlockTime time.Time              `json:"blockTime"`
	Source    domain.BuySource       `json:"source"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// BuyerResponse represents the profile of one buyer
type BuyerResponse struct {
	Identity domain.ResolvedIdentity `json:"identity"`
	Stats    store.ProfileStats      `json:"stats"`
	Activity []BuyActivity           `json:"activity"`
}

// MapBuyToDTO maps a persisted buy event to its API shape
func MapBuyToDTO(e domain.BuyEvent) BuyActivity {
	return BuyActivity{
		TxHash:    e.TxHash,
		PostToken: e.PostToken,
		BlockTime: e.BlockTime,
		Source:    e.Source,
		Extra:     e.Extra,
	}
}
