package utils

import (
	"time"
)

// storagePrecision matches the DATETIME(6) precision of the tracking tables
const storagePrecision = time.Microsecond

// CurrentTime returns the current UTC time truncated to storage precision
func CurrentTime() time.Time {
	return time.Now().UTC().Truncate(storagePrecision)
}
