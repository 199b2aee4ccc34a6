package rp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

const (
	testProject = "ecosystem-qe"
	testAPIKey  = "0123456789abcdef"
)

// recorded is what the fake Report Portal saw for one request.
type recorded struct {
	Method      string
	Path        string
	Auth        string
	Accept      string
	ContentType string
	Body        []byte
}

type fakeRP struct {
	mu       sync.Mutex
	requests []recorded
}

func (f *fakeRP) record(r *http.Request) recorded {
	body, _ := io.ReadAll(r.Body)
	rec := recorded{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		Auth:        r.Header.Get("Authorization"),
		Accept:      r.Header.Get("Accept"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *fakeRP) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request received")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeRP) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newTestClient starts a server that records every request and then calls
// respond, and a Client pointed at it.
func newTestClient(t *testing.T, respond func(w http.ResponseWriter, r *http.Request, rec recorded)) (*Client, *fakeRP) {
	t.Helper()
	fake := &fakeRP{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := fake.record(r)
		respond(w, r, rec)
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Endpoint = server.URL
	cfg.Project = testProject
	cfg.APIKey = testAPIKey
	client, err := New(cfg, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return client, fake
}

func replyJSON(v any) func(http.ResponseWriter, *http.Request, recorded) {
	return func(w http.ResponseWriter, _ *http.Request, _ recorded) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(v)
	}
}

func assertCommonHeaders(t *testing.T, rec recorded) {
	t.Helper()
	if rec.Auth != "Bearer "+testAPIKey {
		t.Errorf("Authorization = %q", rec.Auth)
	}
	if rec.Accept != "application/json" {
		t.Errorf("Accept = %q", rec.Accept)
	}
}

// --- Launch tests ---

func TestClient_StartLaunch(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(StartLaunchResponse{ID: "launch-uuid", Number: 7}))

	rs, err := client.StartLaunch(context.Background(), StartLaunchProperties{
		Name:       "telco-ft-ran-ptp-4.21",
		StartTime:  testTime,
		RerunOf:    "L1",
		Attributes: "build:4.21;nightly",
	})
	if err != nil {
		t.Fatalf("StartLaunch: %v", err)
	}
	if rs.ID != "launch-uuid" || rs.Number != 7 {
		t.Errorf("unexpected response: %+v", rs)
	}

	rec := fake.last(t)
	assertCommonHeaders(t, rec)
	if rec.Method != http.MethodPost || rec.Path != "/api/v1/ecosystem-qe/launch" {
		t.Errorf("got %s %s", rec.Method, rec.Path)
	}
	if rec.ContentType != "application/json" {
		t.Errorf("Content-Type = %q", rec.ContentType)
	}

	var rq StartLaunchRequest
	if err := json.Unmarshal(rec.Body, &rq); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if !rq.StartTime.Time().Equal(testTime) {
		t.Errorf("startTime = %v, want %v", rq.StartTime.Time(), testTime)
	}
	if !rq.Rerun || rq.RerunOf != "L1" {
		t.Errorf("rerun not set: %+v", rq)
	}
	want := []ItemAttribute{{Value: "nightly"}, {Key: "build", Value: "4.21"}}
	if diff := cmp.Diff(want, rq.Attributes.Sorted()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_FinishLaunch(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(FinishLaunchResponse{ID: "launch-uuid", Number: 7, Link: "http://rp/ui/#p/launches/all/7"}))

	rs, err := client.FinishLaunch(context.Background(), FinishLaunchProperties{
		LaunchUUID: "launch-uuid",
		EndTime:    testTime,
		Status:     StatusPassed,
	})
	if err != nil {
		t.Fatalf("FinishLaunch: %v", err)
	}
	if rs.Link == "" {
		t.Errorf("expected link in response: %+v", rs)
	}

	rec := fake.last(t)
	assertCommonHeaders(t, rec)
	if rec.Method != http.MethodPut || rec.Path != "/api/v1/ecosystem-qe/launch/launch-uuid/finish" {
		t.Errorf("got %s %s", rec.Method, rec.Path)
	}
}

func TestClient_UpdateLaunch(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(OperationCompletionResponse{Message: "Launch with ID = '33195' successfully updated."}))

	rs, err := client.UpdateLaunch(context.Background(), UpdateLaunchProperties{
		LaunchID:    33195,
		Description: "rerun after infra fix",
		Mode:        ModeDefault,
	})
	if err != nil {
		t.Fatalf("UpdateLaunch: %v", err)
	}
	if !strings.Contains(rs.Message, "successfully updated") {
		t.Errorf("unexpected message: %q", rs.Message)
	}

	rec := fake.last(t)
	if rec.Method != http.MethodPut || rec.Path != "/api/v1/ecosystem-qe/launch/33195/update" {
		t.Errorf("got %s %s", rec.Method, rec.Path)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body, &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["attributes"]; ok {
		t.Errorf("attributes should be absent: %v", body)
	}
}

// --- Item tests ---

func TestClient_StartItem_Path(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		want   string
	}{
		{"top level", "", "/api/v1/ecosystem-qe/item"},
		{"blank parent", "   ", "/api/v1/ecosystem-qe/item"},
		{"nested", "p1", "/api/v1/ecosystem-qe/item/p1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{ID: "item-uuid"}))
			rs, err := client.StartItem(context.Background(), StartTestItemProperties{
				LaunchUUID: "launch-uuid",
				ParentUUID: tt.parent,
				Name:       "[T-TSC] RAN PTP tests",
				Type:       ItemTypeTest,
				StartTime:  testTime,
			})
			if err != nil {
				t.Fatalf("StartItem: %v", err)
			}
			if rs.ID != "item-uuid" {
				t.Errorf("ID = %q", rs.ID)
			}
			rec := fake.last(t)
			assertCommonHeaders(t, rec)
			if rec.Method != http.MethodPost || rec.Path != tt.want {
				t.Errorf("got %s %s, want POST %s", rec.Method, rec.Path, tt.want)
			}
		})
	}
}

func TestClient_FinishItem(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{ID: "item-uuid"}))

	_, err := client.FinishItem(context.Background(), FinishTestItemProperties{
		ItemUUID:   "item-uuid",
		LaunchUUID: "launch-uuid",
		EndTime:    testTime,
		Status:     StatusFailed,
		Attributes: "defect:pb001",
	})
	if err != nil {
		t.Fatalf("FinishItem: %v", err)
	}

	rec := fake.last(t)
	if rec.Method != http.MethodPut || rec.Path != "/api/v1/ecosystem-qe/item/item-uuid" {
		t.Errorf("got %s %s", rec.Method, rec.Path)
	}
	var rq FinishTestItemRequest
	if err := json.Unmarshal(rec.Body, &rq); err != nil {
		t.Fatal(err)
	}
	if rq.Status != StatusFailed || rq.LaunchUUID != "launch-uuid" {
		t.Errorf("unexpected body: %+v", rq)
	}
	if !rq.Attributes.Contains(ItemAttribute{Key: "defect", Value: "pb001"}) {
		t.Errorf("missing attribute: %v", rq.Attributes.Sorted())
	}
}

// --- Log tests ---

func TestClient_AddLog(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{ID: "log-uuid"}))

	rs, err := client.AddLog(context.Background(), AddLogProperties{
		LaunchUUID: "launch-uuid",
		ItemUUID:   "item-uuid",
		Level:      LogLevelError,
		Time:       testTime,
		Message:    "ptp4l: clock sync lost",
	})
	if err != nil {
		t.Fatalf("AddLog: %v", err)
	}
	if rs.ID != "log-uuid" {
		t.Errorf("ID = %q", rs.ID)
	}

	rec := fake.last(t)
	assertCommonHeaders(t, rec)
	if rec.Method != http.MethodPost || rec.Path != "/api/v1/ecosystem-qe/log" {
		t.Errorf("got %s %s", rec.Method, rec.Path)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body, &body); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"launchUuid": "launch-uuid",
		"itemUuid":   "item-uuid",
		"time":       float64(testTime.UnixMilli()),
		"message":    "ptp4l: clock sync lost",
		"level":      "error",
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_AddFileAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "must-gather.log")
	content := []byte("line 1\nline 2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		gotLogs     []SaveLogRequest
		gotFile     []byte
		gotFileName string
		gotPartType string
	)
	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		_, params, err := mime.ParseMediaType(rec.ContentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(bytes.NewReader(rec.Body), params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			switch part.FormName() {
			case jsonRequestPart:
				gotPartType = part.Header.Get("Content-Type")
				json.NewDecoder(part).Decode(&gotLogs)
			case filePart:
				gotFileName = part.FileName()
				gotFile, _ = io.ReadAll(part)
			}
		}
		replyJSON(EntryCreatedResponse{ID: "attachment-uuid"})(w, r, rec)
	})

	rs, err := client.AddFileAttachment(context.Background(), AddFileAttachmentProperties{
		LaunchUUID: "launch-uuid",
		Level:      LogLevelInfo,
		Time:       testTime,
		Message:    "must-gather output",
		FilePath:   path,
	})
	if err != nil {
		t.Fatalf("AddFileAttachment: %v", err)
	}
	if rs.ID != "attachment-uuid" {
		t.Errorf("ID = %q", rs.ID)
	}

	rec := fake.last(t)
	assertCommonHeaders(t, rec)
	if !strings.HasPrefix(rec.ContentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q", rec.ContentType)
	}
	if gotPartType != "application/json" {
		t.Errorf("json part Content-Type = %q", gotPartType)
	}
	if len(gotLogs) != 1 {
		t.Fatalf("expected one log entry, got %d", len(gotLogs))
	}
	entry := gotLogs[0]
	if entry.File == nil || entry.File.Name != "must-gather.log" {
		t.Errorf("log entry file = %+v", entry.File)
	}
	if entry.ItemUUID != "" || entry.LaunchUUID != "launch-uuid" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if gotFileName != "must-gather.log" || !bytes.Equal(gotFile, content) {
		t.Errorf("file part: name=%q content=%q", gotFileName, gotFile)
	}
}

func TestClient_AddFileAttachment_MissingFile(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{}))

	_, err := client.AddFileAttachment(context.Background(), AddFileAttachmentProperties{
		LaunchUUID: "launch-uuid",
		Level:      LogLevelInfo,
		Time:       testTime,
		Message:    "missing",
		FilePath:   filepath.Join(t.TempDir(), "nope.txt"),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if fake.count() != 0 {
		t.Errorf("expected no request, got %d", fake.count())
	}
}

// --- Response classification through the client ---

func TestClient_RedirectIsNotFollowed(t *testing.T) {
	var followed atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ recorded) {
		if r.URL.Path == "/elsewhere" {
			followed.Add(1)
			return
		}
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})

	_, err := client.StartLaunch(context.Background(), StartLaunchProperties{Name: "n", StartTime: testTime})
	if !IsRedirect(err) {
		t.Fatalf("expected redirect error, got %v", err)
	}
	var clientErr *ClientError
	errors.As(err, &clientErr)
	if clientErr.Message() != redirectMessage {
		t.Errorf("Message = %q", clientErr.Message())
	}
	if followed.Load() != 0 {
		t.Error("redirect was followed")
	}
}

func TestClient_NotFound(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantMessage string
		wantCode    int
	}{
		{"json body", "application/json", `{"errorCode":40410,"message":"Launch 'x' not found"}`, "Launch 'x' not found", 40410},
		{"plain text", "text/plain", "404 page not found", "404 page not found", 0},
		{"empty body", "", "", unparsableMessage, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recorded) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, tt.body)
			})

			_, err := client.FinishLaunch(context.Background(), FinishLaunchProperties{LaunchUUID: "x", EndTime: testTime})
			if !IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
			var clientErr *ClientError
			errors.As(err, &clientErr)
			if clientErr.Message() != tt.wantMessage || clientErr.ErrorCode() != tt.wantCode {
				t.Errorf("got message=%q code=%d", clientErr.Message(), clientErr.ErrorCode())
			}
			if clientErr.Operation() != "finish launch" {
				t.Errorf("Operation = %q", clientErr.Operation())
			}
		})
	}
}

func TestClient_EmptySuccessBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recorded) {
		w.WriteHeader(http.StatusOK)
	})

	rs, err := client.StartLaunch(context.Background(), StartLaunchProperties{Name: "n", StartTime: testTime})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *rs != (StartLaunchResponse{}) {
		t.Errorf("expected zero response, got %+v", rs)
	}
}

func TestClient_InvalidPropertiesSendNothing(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{}))
	ctx := context.Background()

	_, err := client.StartItem(ctx, StartTestItemProperties{Name: "n", StartTime: testTime, Type: ItemTypeStep})
	if !errors.Is(err, ErrInvalidProperties) {
		t.Errorf("StartItem: expected ErrInvalidProperties, got %v", err)
	}
	_, err = client.AddLog(ctx, AddLogProperties{LaunchUUID: "L", ItemUUID: "I", Time: testTime, Message: "m"})
	if !errors.Is(err, ErrInvalidProperties) {
		t.Errorf("AddLog: expected ErrInvalidProperties, got %v", err)
	}
	if fake.count() != 0 {
		t.Errorf("expected no requests, got %d", fake.count())
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint, cfg.Project, cfg.APIKey = endpoint, testProject, testAPIKey
	client, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.StartLaunch(context.Background(), StartLaunchProperties{Name: "n", StartTime: testTime})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		t.Errorf("transport failures must not become client errors: %v", err)
	}
	if !strings.Contains(err.Error(), "start launch: do request") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	client, fake := newTestClient(t, replyJSON(EntryCreatedResponse{ID: "item"}))

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := client.StartItem(ctx, StartTestItemProperties{
				LaunchUUID: "launch-uuid", Name: "step", Type: ItemTypeStep, StartTime: testTime,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent StartItem: %v", err)
	}
	if fake.count() != 16 {
		t.Errorf("expected 16 requests, got %d", fake.count())
	}
}

func TestClient_DoesNotLogAPIKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Endpoint, cfg.Project, cfg.APIKey = server.URL, testProject, testAPIKey
	client, err := New(cfg, WithHTTPClient(server.Client()), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.StartLaunch(context.Background(), StartLaunchProperties{Name: "n", StartTime: testTime}); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if strings.Contains(output, testAPIKey) {
		t.Errorf("API key leaked into logs: %s", output)
	}
	if !strings.Contains(output, "API request") || !strings.Contains(output, "operation=\"start launch\"") {
		t.Errorf("expected request log, got: %s", output)
	}
}

// --- Client construction tests ---

func TestNew_InvalidConfig(t *testing.T) {
	tests := map[string]Config{
		"empty endpoint": {Project: "p", APIKey: "k"},
		"no scheme":      {Endpoint: "rp.example.com", Project: "p", APIKey: "k"},
		"no project":     {Endpoint: "http://rp", APIKey: "k"},
		"no api key":     {Endpoint: "http://rp", Project: "p"},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoint, cfg.Project, cfg.APIKey = "http://rp.example.com/", "p", "k"
	client, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if client.endpoint.String() != "http://rp.example.com" {
		t.Errorf("endpoint not trimmed: %q", client.endpoint)
	}
	if client.Project() != "p" {
		t.Errorf("Project = %q", client.Project())
	}
}
