package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Training represents a single recorded workout.
type Training struct {
	// ID is the unique identifier of the training. Zero means not persisted.
	ID int64 `json:"id" db:"id"`

	// UserID references the owning user. A nil owner is allowed by storage
	// but callers are expected to set it.
	UserID *int64 `json:"userId,omitempty" db:"user_id"`

	// StartTime is the instant the workout started.
	StartTime time.Time `json:"startTime" db:"start_time"`

	// EndTime is the instant the workout ended. Expected to be at or after
	// StartTime.
	EndTime time.Time `json:"endTime" db:"end_time"`

	// ActivityType is the kind of workout.
	ActivityType ActivityType `json:"activityType" db:"activity_type"`

	// Distance covered, in kilometres.
	Distance float64 `json:"distance" db:"distance"`

	// AverageSpeed over the workout, in kilometres per hour.
	AverageSpeed float64 `json:"averageSpeed" db:"average_speed"`
}

// TrainingTransfer is the wire representation of a Training.
type TrainingTransfer struct {
	ID           *int64    `json:"id,omitempty"`
	UserID       *int64    `json:"userId,omitempty"`
	StartTime    Timestamp `json:"startTime"`
	EndTime      Timestamp `json:"endTime"`
	ActivityType string    `json:"activityType"`
	Distance     *float64  `json:"distance,omitempty"`
	AverageSpeed *float64  `json:"averageSpeed,omitempty"`
}

// ActivityType is the closed set of workout kinds.
type ActivityType int

// Supported activity types. The zero value is not a valid activity type.
const (
	ActivityRunning ActivityType = iota + 1
	ActivityCycling
	ActivityWalking
	ActivitySwimming
	ActivityTennis
)

// activityTypeNames holds the stable wire names, indexed by value.
var activityTypeNames = map[ActivityType]string{
	ActivityRunning:  "RUNNING",
	ActivityCycling:  "CYCLING",
	ActivityWalking:  "WALKING",
	ActivitySwimming: "SWIMMING",
	ActivityTennis:   "TENNIS",
}

var activityTypeLabels = map[ActivityType]string{
	ActivityRunning:  "Running",
	ActivityCycling:  "Cycling",
	ActivityWalking:  "Walking",
	ActivitySwimming: "Swimming",
	ActivityTennis:   "Tennis",
}

// ActivityTypes returns every activity type in declaration order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityRunning,
		ActivityCycling,
		ActivityWalking,
		ActivitySwimming,
		ActivityTennis,
	}
}

// ParseActivityType resolves a wire name. Matching is exact and case-sensitive.
func ParseActivityType(name string) (ActivityType, bool) {
	for _, at := range ActivityTypes() {
		if activityTypeNames[at] == name {
			return at, true
		}
	}
	return 0, false
}

// String returns the stable wire name of the activity type.
func (a ActivityType) String() string {
	if name, ok := activityTypeNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Label returns the human-readable name of the activity type.
func (a ActivityType) Label() string {
	if label, ok := activityTypeLabels[a]; ok {
		return label
	}
	return "Unknown"
}

// Valid reports whether a is one of the declared activity types.
func (a ActivityType) Valid() bool {
	_, ok := activityTypeNames[a]
	return ok
}

func (a ActivityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Value stores the activity type by its wire name.
func (a ActivityType) Value() (driver.Value, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid activity type %d", int(a))
	}
	return a.String(), nil
}

// Scan reads an activity type stored by its wire name.
func (a *ActivityType) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ActivityType", src)
	}
	parsed, ok := ParseActivityType(name)
	if !ok {
		return fmt.Errorf("unknown activity type %q", name)
	}
	*a = parsed
	return nil
}
