package cdp

import (
	"fmt"
	"strings"
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// coinCreatedEvents are the factory events that mark a tracked token
var coinCreatedEvents = []string{"CoinCreated", "CoinCreatedV4", "CreatorCoinCreated"}

// BuysQuery describes one incremental buy query
type BuysQuery struct {
	// Cursor is exclusive and must already be in canonical cursor format
	Cursor string
	// CoinSince bounds which factory-created coins are tracked
	CoinSince time.Time
	// RowCap bounds the result size
	RowCap int
	// Factory is the coin factory contract
	Factory string
}

// BuildBuysQuery renders the analytics SQL selecting non-mint transfers of
// tracked coins strictly after the cursor, oldest first.
// Only canonical values reach the SQL text.
func BuildBuysQuery(q BuysQuery) (string, error) {
	cursor, err := domain.SanitizeCursor(q.Cursor)
	if err != nil {
		return "", domain.NewValidationError("cursor", err.Error())
	}
	factory, err := domain.NormalizeAddress(q.Factory)
	if err != nil {
		return "", err
	}
	if q.RowCap <= 0 {
		return "", domain.NewValidationError("row_cap", "must be positive")
	}

	events := make([]string, len(coinCreatedEvents))
	for i, e := range coinCreatedEvents {
		events[i] = "'" + e + "'"
	}

	return fmt.Sprintf(`WITH content_coins AS (
    SELECT DISTINCT CAST(parameters['coin'] AS VARCHAR) AS token_address
    FROM base.events
    WHERE address = '%s'
    AND event_name IN (%s)
    AND block_timestamp > '%s'
),
recent_buys AS (
    SELECT
        t.block_timestamp AS block_time,
        t.transaction_hash AS tx_hash,
        t.parameters['to'] AS buyer,
        t.address AS post_token
    FROM base.events t
    JOIN content_coins cc ON t.address = cc.token_address
    WHERE t.event_name = 'Transfer'
    AND t.parameters['from'] != '%s'
    AND t.block_timestamp > '%s'
    ORDER BY t.block_timestamp ASC
    LIMIT %d
)
SELECT * FROM recent_buys`,
		factory,
		strings.Join(events, ", "),
		domain.FormatCursor(q.CoinSince),
		zeroAddress,
		cursor,
		q.RowCap,
	), nil
}
