package schemas

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/samber/mo"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/codec"
	"github.com/lariatlabs/event-source-service/common/models"
)

func testRequest() models.EventSourceRequest {
	return models.EventSourceRequest{
		Name:          "github-commits",
		Flavor:        "github",
		PluginType:    "event_source",
		PluginSubtype: "webhook",
		Description:   "commit events",
		Configuration: map[string]interface{}{"threshold": float64(5), "labels": []interface{}{"a", "b"}},
	}
}

func testSchema(t *testing.T) *EventSourceSchema {
	t.Helper()
	schema, err := EventSourceSchemaFromRequest(testRequest(), "ws-1", "user-1")
	if err != nil {
		t.Fatal(err)
	}
	schema.ID = "es-1"
	schema.CreatedAt = time.Now().UTC().Add(-time.Hour)
	schema.UpdatedAt = schema.CreatedAt
	return schema
}

func TestEventSourceSchemaFromRequest(t *testing.T) {
	req := testRequest()
	schema, err := EventSourceSchemaFromRequest(req, "ws-1", "user-1")
	if err != nil {
		t.Fatalf("FromRequest failed: %v", err)
	}

	if schema.WorkspaceID != "ws-1" {
		t.Errorf("Expected workspace ws-1, got %s", schema.WorkspaceID)
	}
	if !schema.UserID.Valid || schema.UserID.String != "user-1" {
		t.Errorf("Expected owner user-1, got %v", schema.UserID)
	}
	if schema.Flavor != "github" || schema.PluginType != "event_source" || schema.PluginSubtype != "webhook" {
		t.Errorf("Identity fields not copied: %+v", schema)
	}

	config, err := codec.Decode(schema.Configuration)
	if err != nil {
		t.Fatalf("Stored blob does not decode: %v", err)
	}
	if !reflect.DeepEqual(config, req.Configuration) {
		t.Errorf("Configuration round trip mismatch: got %v, want %v", config, req.Configuration)
	}
}

func TestFromRequestScopeInjection(t *testing.T) {
	// A workspace-shaped value in the payload must never become the row scope.
	req := testRequest()
	req.Configuration["workspace_id"] = "ws-evil"

	schema, err := EventSourceSchemaFromRequest(req, "ws-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if schema.WorkspaceID != "ws-1" {
		t.Errorf("Scope must come from the caller, got %s", schema.WorkspaceID)
	}
	if schema.UserID.Valid {
		t.Errorf("Expected null owner, got %v", schema.UserID)
	}
}

func TestFromRequestEncodingError(t *testing.T) {
	req := testRequest()
	req.Configuration = map[string]interface{}{"bad": make(chan int)}

	_, err := EventSourceSchemaFromRequest(req, "ws-1", "")
	if !errors.Is(err, common.ErrEncoding) {
		t.Errorf("Expected ErrEncoding, got: %v", err)
	}
}

func TestToResponseHydrationSplit(t *testing.T) {
	schema := testSchema(t)

	unhydrated, err := schema.ToResponse(false)
	if err != nil {
		t.Fatalf("ToResponse(false) failed: %v", err)
	}
	if unhydrated.Metadata != nil {
		t.Error("Unhydrated response must have absent metadata")
	}
	if unhydrated.ID != "es-1" || unhydrated.Name != "github-commits" {
		t.Errorf("Body identity mismatch: %+v", unhydrated)
	}
	if unhydrated.Body.WorkspaceID != "ws-1" || unhydrated.Body.UserID != "user-1" {
		t.Errorf("Scope references missing from body: %+v", unhydrated.Body)
	}

	hydrated, err := schema.ToResponse(true)
	if err != nil {
		t.Fatalf("ToResponse(true) failed: %v", err)
	}
	if hydrated.Metadata == nil {
		t.Fatal("Hydrated response must have metadata")
	}
	if hydrated.Metadata.Description != "commit events" {
		t.Errorf("Expected description in metadata, got %q", hydrated.Metadata.Description)
	}
	if !reflect.DeepEqual(hydrated.Metadata.Configuration, testRequest().Configuration) {
		t.Errorf("Configuration mismatch: %v", hydrated.Metadata.Configuration)
	}
}

func TestToResponseUnhydratedSkipsDecoding(t *testing.T) {
	// A corrupt blob is only noticed when the response is hydrated, which
	// proves the unhydrated path never touches the codec.
	schema := testSchema(t)
	schema.Configuration = []byte("garbage")

	if _, err := schema.ToResponse(false); err != nil {
		t.Errorf("ToResponse(false) must not decode, got: %v", err)
	}

	_, err := schema.ToResponse(true)
	if !errors.Is(err, common.ErrCorruption) {
		t.Errorf("Expected ErrCorruption on hydrated read, got: %v", err)
	}
}

func TestApplyUpdatePartialPatch(t *testing.T) {
	schema := testSchema(t)
	before := schema.UpdatedAt

	_, err := schema.ApplyUpdate(models.EventSourceUpdate{
		Description: mo.Some("new description"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if schema.Description.String != "new description" {
		t.Errorf("Description not updated: %v", schema.Description)
	}
	if schema.Name != "github-commits" {
		t.Errorf("Unset field must not change, got name %s", schema.Name)
	}
	if schema.Flavor != "github" {
		t.Errorf("Flavor must not change, got %s", schema.Flavor)
	}
	if !schema.UpdatedAt.After(before) {
		t.Error("UpdatedAt must advance on update")
	}
}

func TestApplyUpdateUnsetVsEmpty(t *testing.T) {
	schema := testSchema(t)

	// Explicit empty string is a real write, distinct from an absent field.
	if _, err := schema.ApplyUpdate(models.EventSourceUpdate{Description: mo.Some("")}); err != nil {
		t.Fatal(err)
	}
	if !schema.Description.Valid || schema.Description.String != "" {
		t.Errorf("Expected description set to empty, got %v", schema.Description)
	}
}

func TestApplyUpdateIgnoresImmutableFields(t *testing.T) {
	schema := testSchema(t)

	update := models.EventSourceUpdate{
		Flavor:        mo.Some("gitlab"),
		PluginType:    mo.Some("other_type"),
		PluginSubtype: mo.Some("polling"),
		RotateSecret:  mo.Some(true),
	}

	before := schema.UpdatedAt
	if _, err := schema.ApplyUpdate(update); err != nil {
		t.Fatal(err)
	}

	if schema.Flavor != "github" {
		t.Errorf("Flavor changed to %s", schema.Flavor)
	}
	if schema.PluginType != "event_source" {
		t.Errorf("PluginType changed to %s", schema.PluginType)
	}
	if schema.PluginSubtype != "webhook" {
		t.Errorf("PluginSubtype changed to %s", schema.PluginSubtype)
	}

	// A no-op-only update still counts as the entity being touched.
	if !schema.UpdatedAt.After(before) {
		t.Error("UpdatedAt must advance even when nothing stored changed")
	}
}

func TestApplyUpdateReplacesConfigurationWhole(t *testing.T) {
	schema := testSchema(t)

	newConfig := map[string]interface{}{"only_key": "only_value"}
	if _, err := schema.ApplyUpdate(models.EventSourceUpdate{
		Configuration: mo.Some(newConfig),
	}); err != nil {
		t.Fatal(err)
	}

	decoded, err := codec.Decode(schema.Configuration)
	if err != nil {
		t.Fatal(err)
	}
	// Whole-value replace: old keys must be gone, not merged.
	if !reflect.DeepEqual(decoded, newConfig) {
		t.Errorf("Expected whole-value replace, got %v", decoded)
	}
}

func TestApplyUpdateConfigurationEncodingError(t *testing.T) {
	schema := testSchema(t)
	original := schema.Configuration

	_, err := schema.ApplyUpdate(models.EventSourceUpdate{
		Configuration: mo.Some(map[string]interface{}{"bad": make(chan int)}),
	})
	if !errors.Is(err, common.ErrEncoding) {
		t.Errorf("Expected ErrEncoding, got: %v", err)
	}
	if !reflect.DeepEqual(schema.Configuration, original) {
		t.Error("Failed update must not replace the stored blob")
	}
}

func TestUpdatedAtMonotonic(t *testing.T) {
	schema := testSchema(t)

	var previous time.Time
	for i := 0; i < 5; i++ {
		if _, err := schema.ApplyUpdate(models.EventSourceUpdate{Name: mo.Some("n")}); err != nil {
			t.Fatal(err)
		}
		if !schema.UpdatedAt.After(previous) {
			t.Fatalf("UpdatedAt not strictly increasing at iteration %d", i)
		}
		previous = schema.UpdatedAt
	}
}
