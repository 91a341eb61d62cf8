package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agrama-db/agrama/core/embedding"
	"github.com/agrama-db/agrama/core/index/bm25"
	"github.com/agrama-db/agrama/core/index/fre"
	"github.com/agrama-db/agrama/core/index/hnsw"
	"github.com/agrama-db/agrama/core/primitives"
	"github.com/agrama-db/agrama/core/query"
	"github.com/agrama-db/agrama/core/temporal"
	"github.com/agrama-db/agrama/core/transform"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	lex := bm25.New(bm25.DefaultConfig())
	sem := hnsw.New(hnsw.DefaultConfig(8))
	graph := fre.NewGraph()
	freEngine := fre.New(graph, fre.DefaultConfig())
	embedder := embedding.NewMockProvider(8)
	hybrid := query.New(lex, sem, freEngine, embedder, query.Config{CacheCapacity: 16})

	reg := primitives.BuiltinRegistry(transform.BuiltinRegistry(transform.Config{Embedder: embedder}))
	engine := primitives.New(reg, primitives.Config{
		Temporal:       temporal.New(nil),
		Lex:            lex,
		Sem:            sem,
		Graph:          graph,
		FRE:            freEngine,
		Hybrid:         hybrid,
		Embedder:       embedder,
		EmbedThreshold: 10,
	})

	return New(engine, Config{})
}

func decodeResponse(t *testing.T, out []byte) response {
	t.Helper()
	var resp response
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("response not valid JSON: %v\n%s", err, out)
	}
	if resp.JSONRPC != "2.0" {
		t.Fatalf("jsonrpc = %q, want 2.0", resp.JSONRPC)
	}
	return resp
}

func TestHandleMessageOversizedRejectedBeforeParse(t *testing.T) {
	d := newTestDispatcher(t)
	d.cfg.MaxMessageSize = 10

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response for an oversized request")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != -32005 {
		t.Fatalf("expected MESSAGE_TOO_LARGE validation code, got %+v", resp.Error)
	}
}

func TestHandleMessageParseErrorEnvelope(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{not json`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response for a parse failure")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Fatalf("expected ParseError code -32700, got %+v", resp.Error)
	}
	if string(resp.ID) != "null" {
		t.Fatalf("id = %s, want null (id unknown before parse)", resp.ID)
	}
}

func TestHandleMessageInvalidRequestMissingMethod(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":2}`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != -32600 {
		t.Fatalf("expected InvalidRequest code -32600, got %+v", resp.Error)
	}
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":3,"method":"nope"}`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected MethodNotFound code -32601, got %+v", resp.Error)
	}
}

func TestHandleMessageInitialize(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":4,"method":"initialize","params":{"protocolVersion":"2.0"}}`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result has unexpected shape: %#v", resp.Result)
	}
	if result["protocolVersion"] != "2.0" {
		t.Fatalf("protocolVersion = %v, want 2.0", result["protocolVersion"])
	}
}

func TestHandleMessageInitializedNotificationHasNoResponse(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"initialized"}`), "agent-1", "sess-1")
	if ok {
		t.Fatalf("expected no response for a notification, got %s", out)
	}
}

func TestHandleMessageToolsList(t *testing.T) {
	d := newTestDispatcher(t)

	out, ok := d.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":5,"method":"tools/list"}`), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result has unexpected shape: %#v", resp.Result)
	}
	tools, ok := result["tools"].([]interface{})
	if !ok || len(tools) == 0 {
		t.Fatalf("expected a non-empty tools array, got %#v", result["tools"])
	}
}

func TestHandleMessageToolsCallStoreAndRetrieve(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	storeReq := `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"store","arguments":{"key":"k1","value":"hello world"}}}`
	out, ok := d.HandleMessage(ctx, []byte(storeReq), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result has unexpected shape: %#v", resp.Result)
	}
	if result["isError"] == true {
		t.Fatalf("store reported isError: %#v", result)
	}

	retrieveReq := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"retrieve","arguments":{"key":"k1"}}}`
	out, ok = d.HandleMessage(ctx, []byte(retrieveReq), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp = decodeResponse(t, out)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestHandleMessageToolsCallUnknownPrimitiveReportsIsError(t *testing.T) {
	d := newTestDispatcher(t)

	// An unknown primitive name is a tool-execution failure, not a
	// malformed request: it surfaces as isError:true inside a normal
	// tools/call result, not as a top-level JSON-RPC error (§6).
	req := `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"does_not_exist","arguments":{}}}`
	out, ok := d.HandleMessage(context.Background(), []byte(req), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error != nil {
		t.Fatalf("expected no top-level error, got %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result has unexpected shape: %#v", resp.Result)
	}
	if result["isError"] != true {
		t.Fatalf("expected isError true, got %#v", result)
	}
}

func TestHandleMessageToolsCallMissingName(t *testing.T) {
	d := newTestDispatcher(t)

	req := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"arguments":{}}}`
	out, ok := d.HandleMessage(context.Background(), []byte(req), "agent-1", "sess-1")
	if !ok {
		t.Fatal("expected a response")
	}
	resp := decodeResponse(t, out)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected InvalidParams code -32602, got %+v", resp.Error)
	}
}
