package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// CursorKey is the key-value store key of the ingestion watermark
const CursorKey = "last_ingest_time"

// CursorLayout is the canonical cursor format accepted by the analytics query language.
// It carries no timezone marker and no sub-second fraction.
const CursorLayout = "2006-01-02 15:04:05"

// BuySource identifies which upstream produced a buy event
type BuySource string

const (
	BuySourceCDP  BuySource = "cdp"
	BuySourceZora BuySource = "zora_api"
)

// IdentitySource identifies which waterfall step produced the display name
type IdentitySource string

const (
	IdentitySourceManual    IdentitySource = "manual"
	IdentitySourceBasename  IdentitySource = "basename"
	IdentitySourceFarcaster IdentitySource = "farcaster"
	IdentitySourceZora      IdentitySource = "zora"
	IdentitySourceENS       IdentitySource = "ens"
	IdentitySourceContract  IdentitySource = "contract"
	IdentitySourceAddress   IdentitySource = "address"
)

// QueryRow is one normalized row returned by an upstream query.
// Both the analytics client and the activity feed produce this shape.
type QueryRow struct {
	BlockTime string                 `json:"block_time"`
	TxHash    string                 `json:"tx_hash"`
	Buyer     string                 `json:"buyer"`
	PostToken string                 `json:"post_token"`
	BuyerName string                 `json:"buyer_name,omitempty"`
	Source    BuySource              `json:"source,omitempty"`
	Extra     map[string]interface{} `json:"-"`
}

// BuyEvent is one observed transfer of a tracked token into a wallet
type BuyEvent struct {
	Buyer     string
	PostToken string
	BlockTime time.Time
	TxHash    string
	Source    BuySource
	Extra     map[string]interface{}
}

// Key returns the uniqueness key of the event
func (e BuyEvent) Key() string {
	return e.TxHash + ":" + e.PostToken + ":" + e.Buyer
}

// Identity is the best known identity record of an address as persisted
type Identity struct {
	Address           string
	ManualName        *string
	BaseName          *string
	ENSName           *string
	FarcasterUsername *string
	FarcasterFID      *int64
	ZoraHandle        *string
	AvatarURL         *string
	IsContract        bool
	UpdatedAt         time.Time
}

// HasName reports whether any name field is populated
func (i *Identity) HasName() bool {
	return nonEmpty(i.ManualName) ||
		nonEmpty(i.BaseName) ||
		nonEmpty(i.FarcasterUsername) ||
		nonEmpty(i.ZoraHandle) ||
		nonEmpty(i.ENSName)
}

// ClearNames drops every name field, used when the address turns out to be a contract
func (i *Identity) ClearNames() {
	i.ManualName = nil
	i.BaseName = nil
	i.ENSName = nil
	i.FarcasterUsername = nil
	i.FarcasterFID = nil
	i.ZoraHandle = nil
	i.AvatarURL = nil
}

// PartialIdentity is what a single identity source contributes to the waterfall
type PartialIdentity struct {
	ManualName        *string
	BaseName          *string
	ENSName           *string
	FarcasterUsername *string
	FarcasterFID      *int64
	ZoraHandle        *string
	AvatarURL         *string
	IsContract        bool
}

// ResolvedIdentity is an identity formatted for consumers
type ResolvedIdentity struct {
	Address           string         `json:"address"`
	DisplayName       string         `json:"displayName"`
	Source            IdentitySource `json:"source"`
	BaseName          *string        `json:"baseName,omitempty"`
	ENSName           *string        `json:"ensName,omitempty"`
	FarcasterUsername *string        `json:"farcasterUsername,omitempty"`
	FarcasterFID      *int64         `json:"farcasterFid,omitempty"`
	ZoraHandle        *string        `json:"zoraHandle,omitempty"`
	AvatarURL         *string        `json:"avatarUrl,omitempty"`
	IsContract        bool           `json:"isContract"`
}

// Resolve formats an identity with the fixed display priority:
// manual > basename > farcaster > zora > ens > formatted address
func (i *Identity) Resolve() ResolvedIdentity {
	r := ResolvedIdentity{
		Address:           i.Address,
		BaseName:          i.BaseName,
		ENSName:           i.ENSName,
		FarcasterUsername: i.FarcasterUsername,
		FarcasterFID:      i.FarcasterFID,
		ZoraHandle:        i.ZoraHandle,
		AvatarURL:         i.AvatarURL,
		IsContract:        i.IsContract,
	}

	switch {
	case nonEmpty(i.ManualName):
		r.DisplayName, r.Source = *i.ManualName, IdentitySourceManual
	case nonEmpty(i.BaseName):
		r.DisplayName, r.Source = *i.BaseName, IdentitySourceBasename
	case nonEmpty(i.FarcasterUsername):
		r.DisplayName, r.Source = *i.FarcasterUsername, IdentitySourceFarcaster
	case nonEmpty(i.ZoraHandle):
		r.DisplayName, r.Source = *i.ZoraHandle, IdentitySourceZora
	case nonEmpty(i.ENSName):
		r.DisplayName, r.Source = *i.ENSName, IdentitySourceENS
	case i.IsContract:
		r.DisplayName, r.Source = FormatAddress(i.Address), IdentitySourceContract
	default:
		r.DisplayName, r.Source = FormatAddress(i.Address), IdentitySourceAddress
	}

	return r
}

// FallbackIdentity returns the formatted-address identity for an address with nothing known
func FallbackIdentity(address string) ResolvedIdentity {
	return ResolvedIdentity{
		Address:     address,
		DisplayName: FormatAddress(address),
		Source:      IdentitySourceAddress,
	}
}

// NormalizeAddress validates a hex address and returns it lowercased
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", NewValidationError("address", fmt.Sprintf("invalid address %q", address))
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}

// FormatAddress shortens an address to 0x1234…abcd
func FormatAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}

// blockTimeLayouts are the timestamp shapes seen from upstream sources
var blockTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// ParseBlockTime parses an upstream timestamp. Values without a zone are UTC.
func ParseBlockTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range blockTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized block time %q", value)
}

// FormatCursor renders a time in the canonical cursor format
func FormatCursor(t time.Time) string {
	return t.UTC().Format(CursorLayout)
}

// SanitizeCursor rewrites a stored cursor into the canonical format.
// Timezone markers and sub-second fractions are stripped.
func SanitizeCursor(value string) (string, error) {
	t, err := ParseBlockTime(value)
	if err != nil {
		return "", err
	}
	return FormatCursor(t), nil
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
