package domain

import (
	"context"
	"fmt"
	"time"
)

// NodalPlane is one of the two fault-plane solutions of a moment tensor.
type NodalPlane struct {
	Strike float64 `json:"strike"`
	Dip    float64 `json:"dip"`
	Rake   float64 `json:"rake"`
}

// Mechanism holds both nodal planes of a focal-mechanism solution.
type Mechanism struct {
	NP1 NodalPlane `json:"np1"`
	NP2 NodalPlane `json:"np2"`
}

// Origin describes one earthquake hypocenter. It is immutable for the
// duration of an evaluation.
type Origin struct {
	ID        string     `json:"id"`
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Depth     float64    `json:"depth"` // km, positive down
	Magnitude float64    `json:"magnitude"`
	Mechanism *Mechanism `json:"mechanism,omitempty"`
}

// Validate rejects origins whose coordinates or source parameters are
// outside physically meaningful ranges. Slightly negative depths are legal:
// catalog hypocenters can sit above the reference ellipsoid.
func (o Origin) Validate() error {
	if o.Lat < -90 || o.Lat > 90 {
		return fmt.Errorf("latitude %g out of range [-90, 90]", o.Lat)
	}
	if o.Lon < -180 || o.Lon > 180 {
		return fmt.Errorf("longitude %g out of range [-180, 180]", o.Lon)
	}
	if o.Depth < -10 || o.Depth > 1000 {
		return fmt.Errorf("depth %g km out of range [-10, 1000]", o.Depth)
	}
	if o.Magnitude < 0 || o.Magnitude > 10.5 {
		return fmt.Errorf("magnitude %g out of range [0, 10.5]", o.Magnitude)
	}
	return nil
}

// RawEvent is an unprocessed origin message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized assignment destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
