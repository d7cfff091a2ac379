package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Buy is one persisted buy event. (tx_hash, post_token, buyer) is unique.
type Buy struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement"`
	TxHash    string            `gorm:"type:text;not null;uniqueIndex:idx_buys_tx_token_buyer,priority:1"`
	PostToken string            `gorm:"type:text;not null;uniqueIndex:idx_buys_tx_token_buyer,priority:2"`
	Buyer     string            `gorm:"type:text;not null;uniqueIndex:idx_buys_tx_token_buyer,priority:3;index:idx_buys_buyer_time,priority:1"`
	BlockTime time.Time         `gorm:"not null;index:idx_buys_block_time;index:idx_buys_buyer_time,priority:2"`
	Source    string            `gorm:"type:text;not null"`
	Extra     datatypes.JSONMap
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (Buy) TableName() string {
	return "buys"
}
