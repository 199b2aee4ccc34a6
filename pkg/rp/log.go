package rp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

const (
	jsonRequestPart = "json_request_part"
	filePart        = "file"
)

// AddLog adds a log entry to a test item.
func (c *Client) AddLog(ctx context.Context, props AddLogProperties) (*EntryCreatedResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}
	u := addLogPath.expand(c.endpoint, c.project)

	var rs EntryCreatedResponse
	if err := c.doJSON(ctx, http.MethodPost, u, "add log", newSaveLogRequest(props), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// AddFileAttachment uploads the file at props.FilePath as a log entry of the
// launch, or of the test item when props.ItemUUID is set.
func (c *Client) AddFileAttachment(ctx context.Context, props AddFileAttachmentProperties) (*EntryCreatedResponse, error) {
	if err := props.Validate(); err != nil {
		return nil, fmt.Errorf("add file attachment: %w", err)
	}
	body, contentType, err := newAttachmentBody(newAttachmentLogRequest(props), props.FilePath)
	if err != nil {
		return nil, fmt.Errorf("add file attachment: %w", err)
	}
	u := addLogPath.expand(c.endpoint, c.project)

	var rs EntryCreatedResponse
	if err := c.do(ctx, http.MethodPost, u, "add file attachment", body, contentType, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// newAttachmentBody writes the multipart body Report Portal expects: a JSON
// array with the log entry, then the file under the name the entry refers to.
func newAttachmentBody(rq SaveLogRequest, path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	jsonHeader := textproto.MIMEHeader{}
	jsonHeader.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": jsonRequestPart}))
	jsonHeader.Set("Content-Type", contentTypeJSON)
	part, err := w.CreatePart(jsonHeader)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode([]SaveLogRequest{rq}); err != nil {
		return nil, "", fmt.Errorf("marshal log request: %w", err)
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     filePart,
		"filename": rq.File.Name,
	}))
	fileHeader.Set("Content-Type", fileContentType(path))
	part, err = w.CreatePart(fileHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func fileContentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
