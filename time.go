package abacus

import (
	"encoding/json"
	"time"

	"github.com/abacuslab/abacus/errors"
)

// UnixTime is a point in time expressed as POSIX time. Unlike time.Time it
// is a plain int64 with seconds precision, so it survives serialization in
// any codec without surprises.
type UnixTime int64

// AsUnixTime converts a time.Time into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the same moment as a time.Time structure.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero reports whether the value is the zero time.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add shifts the time by the given duration, compatible with the
// time.Time.Add method. Any fraction of a second is truncated.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// UnmarshalJSON accepts both a number and a time.Time serialization. The
// number form is the usual wire representation, the string form is handy in
// configurations like the genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var sec int64
	if err := json.Unmarshal(raw, &sec); err != nil {
		var stamp time.Time
		if err := json.Unmarshal(raw, &stamp); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
		}
		sec = stamp.Unix()
	}
	if sec < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
	}
	*t = UnixTime(sec)
	return nil
}

// Validate rejects values that no real clock can produce.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative value")
	}
	return nil
}

// String formats the time the way the time.Time structure would, always in
// UTC.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}
