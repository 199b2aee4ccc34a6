package rp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidProperties is returned when a required property is missing.
// No request is sent in that case.
var ErrInvalidProperties = errors.New("rp: invalid properties")

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidProperties, field)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// StartLaunchProperties describes a launch to start.
//
// Required: Name, StartTime. Optional: RerunOf, Mode, Description,
// Attributes, UUID.
type StartLaunchProperties struct {
	Name      string
	StartTime time.Time

	// RerunOf is the UUID of the launch being rerun.
	RerunOf     string
	Mode        Mode
	Description string
	// Attributes is a raw attribute string, see ParseAttributes.
	Attributes string
	// UUID lets the caller choose the launch UUID instead of the server.
	UUID string
}

// Validate checks the required fields.
func (p StartLaunchProperties) Validate() error {
	if blank(p.Name) {
		return missing("name")
	}
	if p.StartTime.IsZero() {
		return missing("start time")
	}
	return nil
}

// FinishLaunchProperties describes a launch to finish.
//
// Required: LaunchUUID, EndTime. Optional: Status, Description, Attributes.
type FinishLaunchProperties struct {
	LaunchUUID  string
	EndTime     time.Time
	Status      Status
	Description string
	Attributes  string
}

// Validate checks the required fields.
func (p FinishLaunchProperties) Validate() error {
	if blank(p.LaunchUUID) {
		return missing("launch uuid")
	}
	if p.EndTime.IsZero() {
		return missing("end time")
	}
	return nil
}

// UpdateLaunchProperties describes changes to an existing launch.
//
// Required: LaunchID. Optional: Description, Attributes, Mode.
type UpdateLaunchProperties struct {
	LaunchID    int
	Description string
	Attributes  string
	Mode        Mode
}

// Validate checks the required fields.
func (p UpdateLaunchProperties) Validate() error {
	if p.LaunchID <= 0 {
		return missing("launch id")
	}
	return nil
}

// StartTestItemProperties describes a test item to start. A non-blank
// ParentUUID nests the item under that parent.
//
// Required: LaunchUUID, Name, StartTime, Type. Optional: ParentUUID,
// Description, CodeRef, HasStats, Attributes, UUID.
type StartTestItemProperties struct {
	LaunchUUID  string
	ParentUUID  string
	Name        string
	Description string
	StartTime   time.Time
	Attributes  string
	CodeRef     string
	Type        ItemType
	// HasStats is sent only when set; the server defaults to true.
	HasStats *bool
	UUID     string
}

// Validate checks the required fields.
func (p StartTestItemProperties) Validate() error {
	if blank(p.LaunchUUID) {
		return missing("launch uuid")
	}
	if blank(p.Name) {
		return missing("name")
	}
	if p.StartTime.IsZero() {
		return missing("start time")
	}
	if blank(string(p.Type)) {
		return missing("type")
	}
	return nil
}

// FinishTestItemProperties describes a test item to finish.
//
// Required: ItemUUID, LaunchUUID, EndTime, Status. Optional: Attributes.
type FinishTestItemProperties struct {
	ItemUUID   string
	LaunchUUID string
	EndTime    time.Time
	Status     Status
	Attributes string
}

// Validate checks the required fields.
func (p FinishTestItemProperties) Validate() error {
	if blank(p.ItemUUID) {
		return missing("item uuid")
	}
	if blank(p.LaunchUUID) {
		return missing("launch uuid")
	}
	if p.EndTime.IsZero() {
		return missing("end time")
	}
	if blank(string(p.Status)) {
		return missing("status")
	}
	return nil
}

// AddLogProperties describes a log entry for a test item. All fields are required.
type AddLogProperties struct {
	LaunchUUID string
	ItemUUID   string
	Level      LogLevel
	Time       time.Time
	Message    string
}

// Validate checks the required fields.
func (p AddLogProperties) Validate() error {
	if blank(p.LaunchUUID) {
		return missing("launch uuid")
	}
	if blank(p.ItemUUID) {
		return missing("item uuid")
	}
	return validateLogEntry(p.Level, p.Time, p.Message)
}

// AddFileAttachmentProperties describes a file attached to a launch, or to a
// test item when ItemUUID is set.
//
// Required: LaunchUUID, Level, Time, Message, FilePath. Optional: ItemUUID.
type AddFileAttachmentProperties struct {
	LaunchUUID string
	ItemUUID   string
	Level      LogLevel
	Time       time.Time
	Message    string
	FilePath   string
}

// Validate checks the required fields.
func (p AddFileAttachmentProperties) Validate() error {
	if blank(p.LaunchUUID) {
		return missing("launch uuid")
	}
	if blank(p.FilePath) {
		return missing("file path")
	}
	return validateLogEntry(p.Level, p.Time, p.Message)
}

func validateLogEntry(level LogLevel, t time.Time, message string) error {
	if blank(string(level)) {
		return missing("level")
	}
	if t.IsZero() {
		return missing("time")
	}
	if message == "" {
		return missing("message")
	}
	return nil
}
