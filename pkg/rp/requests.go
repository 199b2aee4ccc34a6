package rp

import "path/filepath"

// StartLaunchRequest is the body of POST /api/v1/{project}/launch.
type StartLaunchRequest struct {
	Name        string       `json:"name"`
	StartTime   *EpochMillis `json:"startTime"`
	UUID        string       `json:"uuid,omitempty"`
	Mode        Mode         `json:"mode,omitempty"`
	Description string       `json:"description,omitempty"`
	Attributes  AttributeSet `json:"attributes,omitempty"`
	Rerun       bool         `json:"rerun,omitempty"`
	RerunOf     string       `json:"rerunOf,omitempty"`
}

// FinishLaunchRequest is the body of PUT /api/v1/{project}/launch/{uuid}/finish.
type FinishLaunchRequest struct {
	EndTime     *EpochMillis `json:"endTime"`
	Status      Status       `json:"status,omitempty"`
	Description string       `json:"description,omitempty"`
	Attributes  AttributeSet `json:"attributes,omitempty"`
}

// UpdateLaunchRequest is the body of PUT /api/v1/{project}/launch/{id}/update.
type UpdateLaunchRequest struct {
	Description string       `json:"description,omitempty"`
	Attributes  AttributeSet `json:"attributes,omitempty"`
	Mode        Mode         `json:"mode,omitempty"`
}

// StartTestItemRequest is the body of POST /api/v1/{project}/item[/{parentUuid}].
type StartTestItemRequest struct {
	Name        string       `json:"name"`
	StartTime   *EpochMillis `json:"startTime"`
	Type        ItemType     `json:"type"`
	LaunchUUID  string       `json:"launchUuid"`
	UUID        string       `json:"uuid,omitempty"`
	Description string       `json:"description,omitempty"`
	CodeRef     string       `json:"codeRef,omitempty"`
	HasStats    *bool        `json:"hasStats,omitempty"`
	Attributes  AttributeSet `json:"attributes,omitempty"`
}

// FinishTestItemRequest is the body of PUT /api/v1/{project}/item/{itemUuid}.
type FinishTestItemRequest struct {
	EndTime    *EpochMillis `json:"endTime"`
	LaunchUUID string       `json:"launchUuid"`
	Status     Status       `json:"status"`
	Attributes AttributeSet `json:"attributes,omitempty"`
}

// SaveLogRequest is a log entry for POST /api/v1/{project}/log, either as
// the JSON body or as the json_request_part of a multipart upload.
type SaveLogRequest struct {
	LaunchUUID string       `json:"launchUuid"`
	ItemUUID   string       `json:"itemUuid,omitempty"`
	Time       *EpochMillis `json:"time"`
	Message    string       `json:"message"`
	Level      LogLevel     `json:"level"`
	File       *SaveLogFile `json:"file,omitempty"`
}

// SaveLogFile names the multipart file part a log entry refers to.
type SaveLogFile struct {
	Name string `json:"name"`
}

// The builders below copy required fields unconditionally and each optional
// field only when it is present, so absent values never reach the wire.

func newStartLaunchRequest(p StartLaunchProperties) StartLaunchRequest {
	rq := StartLaunchRequest{
		Name:      p.Name,
		StartTime: NewEpochMillis(p.StartTime),
	}
	if !blank(p.RerunOf) {
		rq.Rerun = true
		rq.RerunOf = p.RerunOf
	}
	if p.Mode != "" {
		rq.Mode = p.Mode
	}
	if p.Description != "" {
		rq.Description = p.Description
	}
	if p.Attributes != "" {
		rq.Attributes = ParseAttributes(p.Attributes)
	}
	if p.UUID != "" {
		rq.UUID = p.UUID
	}
	return rq
}

func newFinishLaunchRequest(p FinishLaunchProperties) FinishLaunchRequest {
	rq := FinishLaunchRequest{EndTime: NewEpochMillis(p.EndTime)}
	if p.Status != "" {
		rq.Status = p.Status
	}
	if p.Description != "" {
		rq.Description = p.Description
	}
	if p.Attributes != "" {
		rq.Attributes = ParseAttributes(p.Attributes)
	}
	return rq
}

func newUpdateLaunchRequest(p UpdateLaunchProperties) UpdateLaunchRequest {
	var rq UpdateLaunchRequest
	if p.Description != "" {
		rq.Description = p.Description
	}
	if p.Attributes != "" {
		rq.Attributes = ParseAttributes(p.Attributes)
	}
	if p.Mode != "" {
		rq.Mode = p.Mode
	}
	return rq
}

func newStartTestItemRequest(p StartTestItemProperties) StartTestItemRequest {
	rq := StartTestItemRequest{
		Name:       p.Name,
		StartTime:  NewEpochMillis(p.StartTime),
		Type:       p.Type,
		LaunchUUID: p.LaunchUUID,
	}
	if p.Description != "" {
		rq.Description = p.Description
	}
	if p.CodeRef != "" {
		rq.CodeRef = p.CodeRef
	}
	if p.HasStats != nil {
		hasStats := *p.HasStats
		rq.HasStats = &hasStats
	}
	if p.Attributes != "" {
		rq.Attributes = ParseAttributes(p.Attributes)
	}
	if p.UUID != "" {
		rq.UUID = p.UUID
	}
	return rq
}

func newFinishTestItemRequest(p FinishTestItemProperties) FinishTestItemRequest {
	rq := FinishTestItemRequest{
		EndTime:    NewEpochMillis(p.EndTime),
		LaunchUUID: p.LaunchUUID,
		Status:     p.Status,
	}
	if p.Attributes != "" {
		rq.Attributes = ParseAttributes(p.Attributes)
	}
	return rq
}

func newSaveLogRequest(p AddLogProperties) SaveLogRequest {
	return SaveLogRequest{
		LaunchUUID: p.LaunchUUID,
		ItemUUID:   p.ItemUUID,
		Level:      p.Level,
		Time:       NewEpochMillis(p.Time),
		Message:    p.Message,
	}
}

func newAttachmentLogRequest(p AddFileAttachmentProperties) SaveLogRequest {
	rq := SaveLogRequest{
		LaunchUUID: p.LaunchUUID,
		Level:      p.Level,
		Time:       NewEpochMillis(p.Time),
		Message:    p.Message,
		File:       &SaveLogFile{Name: filepath.Base(p.FilePath)},
	}
	if p.ItemUUID != "" {
		rq.ItemUUID = p.ItemUUID
	}
	return rq
}
