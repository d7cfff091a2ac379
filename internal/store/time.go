package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

// flexTime scans aggregate timestamps. Postgres returns time.Time while sqlite
// returns MIN/MAX over a datetime column as text.
type flexTime struct {
	Time  time.Time
	Valid bool
}

func (t *flexTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", value)
	}
}

func (t flexTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

func (t *flexTime) parse(value string) error {
	parsed, err := domain.ParseBlockTime(value)
	if err != nil {
		return err
	}
	t.Time, t.Valid = parsed, true
	return nil
}

func (t flexTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
