package schema

import "time"

// Identity is the cached identity of an address. UpdatedAt is written by the resolver
// and drives the read-time TTL, so gorm must not touch it.
type Identity struct {
	Address           string    `gorm:"primaryKey;type:text"`
	ManualName        *string   `gorm:"type:text"`
	BaseName          *string   `gorm:"type:text"`
	ENSName           *string   `gorm:"column:ens;type:text"`
	FarcasterUsername *string   `gorm:"type:text"`
	FarcasterFID      *int64    `gorm:"column:farcaster_fid"`
	ZoraHandle        *string   `gorm:"type:text"`
	AvatarURL         *string   `gorm:"type:text"`
	IsContract        bool      `gorm:"not null;default:false"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (Identity) TableName() string {
	return "identities"
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&KeyValueStore{},
		&Buy{},
		&Identity{},
	}
}
