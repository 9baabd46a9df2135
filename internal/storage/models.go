package storage

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run is the audit entry for one fingerprint pass. Signal values are never
// stored, only the names of signals that came back as sentinels.
type Run struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID         string             `bson:"run_id" json:"run_id"`
	Host          string             `bson:"host,omitempty" json:"host,omitempty"`
	Path          string             `bson:"path,omitempty" json:"path,omitempty"`
	Endpoint      string             `bson:"endpoint" json:"endpoint"`
	States        []string           `bson:"states" json:"states"`
	Delivered     bool               `bson:"delivered" json:"delivered"`
	Attempts      int                `bson:"attempts" json:"attempts"`
	BackoffMs     int64              `bson:"backoff_ms" json:"backoff_ms"`
	DurationMs    int64              `bson:"duration_ms" json:"duration_ms"`
	FailedSignals []string           `bson:"failed_signals,omitempty" json:"failed_signals,omitempty"`
	Error         string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
