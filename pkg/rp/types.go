package rp

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxMillisTimestamp is the upper bound for a value to be interpreted as
// milliseconds (approximately year 2286). Values at or above this threshold
// are treated as microseconds.
const maxMillisTimestamp int64 = 1e13

// EpochMillis represents a point in time serialized as an integer epoch
// timestamp. On deserialization it auto-detects whether the value is
// milliseconds or microseconds based on its magnitude. Serialization always
// produces milliseconds.
type EpochMillis time.Time

// NewEpochMillis converts t for use in a request body.
func NewEpochMillis(t time.Time) *EpochMillis {
	e := EpochMillis(t)
	return &e
}

// Time returns the underlying time.Time value.
func (e EpochMillis) Time() time.Time { return time.Time(e) }

// MarshalJSON serializes EpochMillis as Unix milliseconds.
func (e EpochMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(e).UnixMilli())
}

// UnmarshalJSON deserializes an integer timestamp, auto-detecting ms or us.
func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	var value int64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("unmarshal epoch millis: %w", err)
	}
	if value >= maxMillisTimestamp {
		*e = EpochMillis(time.UnixMicro(value))
	} else {
		*e = EpochMillis(time.UnixMilli(value))
	}
	return nil
}

// Status is the execution status of a launch or test item.
type Status string

const (
	StatusPassed      Status = "PASSED"
	StatusFailed      Status = "FAILED"
	StatusStopped     Status = "STOPPED"
	StatusSkipped     Status = "SKIPPED"
	StatusInterrupted Status = "INTERRUPTED"
	StatusCancelled   Status = "CANCELLED"
	StatusInfo        Status = "INFO"
	StatusWarn        Status = "WARN"
)

// Mode is the launch visibility mode.
type Mode string

const (
	ModeDefault Mode = "DEFAULT"
	ModeDebug   Mode = "DEBUG"
)

// ItemType is the kind of node a test item represents in the launch tree.
type ItemType string

const (
	ItemTypeSuite        ItemType = "SUITE"
	ItemTypeStory        ItemType = "STORY"
	ItemTypeTest         ItemType = "TEST"
	ItemTypeScenario     ItemType = "SCENARIO"
	ItemTypeStep         ItemType = "STEP"
	ItemTypeBeforeClass  ItemType = "BEFORE_CLASS"
	ItemTypeBeforeGroups ItemType = "BEFORE_GROUPS"
	ItemTypeBeforeMethod ItemType = "BEFORE_METHOD"
	ItemTypeBeforeSuite  ItemType = "BEFORE_SUITE"
	ItemTypeBeforeTest   ItemType = "BEFORE_TEST"
	ItemTypeAfterClass   ItemType = "AFTER_CLASS"
	ItemTypeAfterGroups  ItemType = "AFTER_GROUPS"
	ItemTypeAfterMethod  ItemType = "AFTER_METHOD"
	ItemTypeAfterSuite   ItemType = "AFTER_SUITE"
	ItemTypeAfterTest    ItemType = "AFTER_TEST"
)

// LogLevel is the severity of a log entry.
type LogLevel string

const (
	LogLevelFatal   LogLevel = "fatal"
	LogLevelError   LogLevel = "error"
	LogLevelWarn    LogLevel = "warn"
	LogLevelInfo    LogLevel = "info"
	LogLevelDebug   LogLevel = "debug"
	LogLevelTrace   LogLevel = "trace"
	LogLevelUnknown LogLevel = "unknown"
)
