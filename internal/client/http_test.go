package client

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/avi-perl/posthole/internal/config"
	"github.com/avi-perl/posthole/internal/events"
	"github.com/avi-perl/posthole/internal/server"
	"github.com/avi-perl/posthole/internal/service"
	"github.com/avi-perl/posthole/internal/store/document"
)

// newTestClient spins up the real handler stack over an in-memory store and
// returns a client pointed at it.
func newTestClient(t *testing.T) *HTTPClient {
	t.Helper()
	st, err := document.New(context.Background(), document.NewMemoryBlob())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	srv := server.New(service.New(st), &events.NoopPublisher{},
		config.Endpoints{
			Create: true, Read: true, List: true, Replace: true,
			Patch: true, Delete: true, Models: true, Forms: true,
		},
		config.Defaults{ListLimit: 100})
	ts := httptest.NewServer(srv.NewHTTPHandler())
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL)
}

func TestClientCreateGet(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	created, err := c.CreateItem(ctx, &CreateItemRequest{
		Model: "WelcomeMessage",
		Data:  json.RawMessage(`{"message":"hi"}`),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.ID == "" || created.Model != "WelcomeMessage" {
		t.Errorf("created = %+v", created)
	}

	got, err := c.GetItem(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if string(got.Data) != `{"message":"hi"}` {
		t.Errorf("data = %s", got.Data)
	}
}

func TestClientGet_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetItem(context.Background(), "ph-missing", false)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestClientListAndDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	var firstID string
	for i := 0; i < 3; i++ {
		item, err := c.CreateItem(ctx, &CreateItemRequest{Model: "M", Data: json.RawMessage(`{}`)})
		if err != nil {
			t.Fatalf("CreateItem #%d: %v", i, err)
		}
		if i == 0 {
			firstID = item.ID
		}
	}

	resp, err := c.ListItems(ctx, &ListItemsRequest{Model: "M"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}

	if err := c.DeleteItem(ctx, firstID, false); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	resp, err = c.ListItems(ctx, &ListItemsRequest{Model: "M"})
	if err != nil {
		t.Fatalf("ListItems after delete: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count after soft delete = %d, want 2", resp.Count)
	}
}

func TestClientModelSummaryAndHealth(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	if _, err := c.CreateItem(ctx, &CreateItemRequest{Model: "M", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	summary, err := c.ModelSummary(ctx)
	if err != nil {
		t.Fatalf("ModelSummary: %v", err)
	}
	if summary.Count != 1 || summary.Models[0].Model != "M" {
		t.Errorf("summary = %+v", summary)
	}

	status, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q, want ok", status)
	}
}
