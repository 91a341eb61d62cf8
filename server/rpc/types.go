// Package rpc implements §4.9's request dispatcher: a JSON-RPC 2.0
// envelope over a line-delimited transport (§6), routing initialize,
// initialized, tools/list, and tools/call to the primitive engine. This
// package is the only place in the module allowed to format an error
// object for the wire (§4.9) — every other component returns a plain
// *errors.Error and lets the dispatcher translate it.
package rpc

import "encoding/json"

const protocolVersion = "2.0"

// request is the wire shape of an incoming JSON-RPC request or
// notification. id is left as json.RawMessage so it round-trips
// whatever shape the caller sent (string, number, or absent) without
// the dispatcher needing its own identity.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether id is absent or JSON null, per §4.9
// rule 6: notifications receive no response, but side effects still
// occur.
func (r *request) isNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// response is the wire shape of a JSON-RPC response. Result and Error
// are mutually exclusive; exactly one is set.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

// wireError is the `{code, message, data?}` object §6's error envelope
// names.
type wireError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// toolDescriptor is one entry of tools/list's result, matching §6's
// `{name, description, input_schema, output_schema}` shape.
type toolDescriptor struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	InputSchema  interface{} `json:"input_schema,omitempty"`
	OutputSchema interface{} `json:"output_schema,omitempty"`
}

// toolsListResult is tools/list's result object.
type toolsListResult struct {
	Tools []toolDescriptor `json:"tools"`
}

// contentBlock is one entry of tools/call's content array.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolsCallResult is tools/call's result object, matching §6's
// `{content: [{type: "text", text: <json-stringified result>}], isError}`.
type toolsCallResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// initializeParams is the params object accepted by initialize.
type initializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      map[string]interface{} `json:"clientInfo"`
}

// initializeResult is initialize's result object.
type initializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      map[string]interface{} `json:"serverInfo"`
}

// toolsCallParams is the params object accepted by tools/call.
type toolsCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}
