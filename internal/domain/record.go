package domain

import "time"

// TimeLayout is the serialization format for record timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Record is one immutable stored document within a domain. Records are
// written by the offline population job; the query path never mutates them.
type Record struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
}
