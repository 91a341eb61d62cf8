package rpc

import (
	"context"
	"encoding/json"

	"github.com/agrama-db/agrama/core/primitives"
	"github.com/agrama-db/agrama/observability/logging"
	"github.com/agrama-db/agrama/pkg/errors"
)

// DefaultMaxMessageSize is §4.9's default maximum request size (10 MiB).
const DefaultMaxMessageSize = 10 * 1024 * 1024

var nullID = json.RawMessage("null")

// Config controls Dispatcher construction.
type Config struct {
	// MaxMessageSize bounds a single request, enforced before parse.
	MaxMessageSize int

	ServerName    string
	ServerVersion string

	// Logger receives every request-handling log line on the sideband
	// channel; never the protocol stream itself (§6).
	Logger logging.Logger
}

func (c *Config) applyDefaults() {
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.ServerName == "" {
		c.ServerName = "agramad"
	}
	if c.ServerVersion == "" {
		c.ServerVersion = "0.1.0"
	}
	if c.Logger == nil {
		c.Logger = logging.NewStructuredLoggerWithOutput(logging.LevelInfo, nopWriter{})
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Dispatcher routes JSON-RPC requests to a primitive engine per §4.9.
// It is the only component in the module allowed to format an error
// object for the wire.
type Dispatcher struct {
	engine *primitives.Engine
	cfg    Config
}

// New creates a Dispatcher over engine.
func New(engine *primitives.Engine, cfg Config) *Dispatcher {
	cfg.applyDefaults()
	return &Dispatcher{engine: engine, cfg: cfg}
}

// HandleMessage runs steps 1-6 of §4.9 over one line of input and
// returns the marshaled response to write back, or ok=false if raw was
// a notification (no response is sent, though side effects still
// occurred).
func (d *Dispatcher) HandleMessage(ctx context.Context, raw []byte, agentID, sessionID string) (out []byte, ok bool) {
	// Step 1: size cap, enforced before parse.
	if len(raw) > d.cfg.MaxMessageSize {
		return d.marshalError(nullID, errors.ErrMessageTooLarge.WithDetail("size", len(raw))), true
	}

	// Step 2: parse.
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		d.cfg.Logger.Warn(ctx, "request parse failed", logging.Error(err))
		return d.marshalError(nullID, errors.ErrParseError.Wrap(err)), true
	}

	// Step 3: validate envelope shape.
	if req.JSONRPC != protocolVersion || req.Method == "" {
		return d.marshalError(requestID(req), errors.ErrInvalidRequest), true
	}

	notification := req.isNotification()

	result, execErr := d.route(ctx, &req, agentID, sessionID)
	if notification {
		if execErr != nil {
			d.cfg.Logger.Warn(ctx, "notification failed", logging.String("method", req.Method), logging.Error(execErr))
		}
		return nil, false
	}

	if execErr != nil {
		return d.marshalError(requestID(req), execErr), true
	}
	return d.marshalResult(requestID(req), result), true
}

// route resolves method to its handler, returning
// errors.ErrMethodNotFound for anything unrecognized (step 3/4).
func (d *Dispatcher) route(ctx context.Context, req *request, agentID, sessionID string) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return d.handleInitialize(req.Params)
	case "initialized":
		return nil, nil
	case "tools/list":
		return d.handleToolsList()
	case "tools/call":
		return d.handleToolsCall(ctx, req.Params, agentID, sessionID)
	default:
		return nil, errors.ErrMethodNotFound.WithDetail("method", req.Method)
	}
}

func (d *Dispatcher) handleInitialize(raw json.RawMessage) (interface{}, error) {
	var params initializeParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, errors.ErrInvalidParams.Wrap(err)
		}
	}
	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		ServerInfo: map[string]interface{}{
			"name":    d.cfg.ServerName,
			"version": d.cfg.ServerVersion,
		},
	}, nil
}

func (d *Dispatcher) handleToolsList() (interface{}, error) {
	prims := d.engine.Registry().List()
	tools := make([]toolDescriptor, 0, len(prims))
	for _, p := range prims {
		tools = append(tools, toolDescriptor{
			Name:         p.Name,
			Description:  p.Description,
			InputSchema:  p.InputSchema,
			OutputSchema: p.OutputSchema,
		})
	}
	return toolsListResult{Tools: tools}, nil
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, raw json.RawMessage, agentID, sessionID string) (interface{}, error) {
	var params toolsCallParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, errors.ErrInvalidParams.Wrap(err)
	}
	if params.Name == "" {
		return nil, errors.ErrInvalidParams.WithDetail("reason", "missing name")
	}

	result, execErr := d.engine.Execute(ctx, params.Name, params.Arguments, agentID, sessionID)
	if execErr != nil {
		text, _ := json.Marshal(map[string]string{"error": execErr.Error()})
		return toolsCallResult{
			Content: []contentBlock{{Type: "text", Text: string(text)}},
			IsError: true,
		}, nil
	}

	text, err := json.Marshal(result)
	if err != nil {
		return nil, errors.New(errors.CategoryInternal, "RESULT_ENCODE_FAILED", "failed to encode primitive result").Wrap(err)
	}
	return toolsCallResult{
		Content: []contentBlock{{Type: "text", Text: string(text)}},
		IsError: false,
	}, nil
}

func requestID(req request) json.RawMessage {
	if len(req.ID) == 0 {
		return nullID
	}
	return req.ID
}

func (d *Dispatcher) marshalResult(id json.RawMessage, result interface{}) []byte {
	resp := response{JSONRPC: protocolVersion, ID: id, Result: result}
	if result == nil {
		resp.Result = map[string]interface{}{}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return d.marshalError(id, errors.New(errors.CategoryInternal, "RESPONSE_ENCODE_FAILED", "failed to encode response"))
	}
	return data
}

func (d *Dispatcher) marshalError(id json.RawMessage, err error) []byte {
	resp := response{JSONRPC: protocolVersion, ID: id, Error: errorToWire(err)}
	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		// Last resort: a hand-built envelope that cannot itself fail to
		// marshal, so the caller always gets a well-formed line.
		return []byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"internal error"}}`)
	}
	return data
}

func errorToWire(err error) *wireError {
	code := errors.JSONRPCCode(err)
	msg := err.Error()
	var data interface{}

	var agramaErr *errors.Error
	if errors.As(err, &agramaErr) {
		msg = agramaErr.Message
		if len(agramaErr.Details) > 0 {
			data = agramaErr.Details
		}
	}
	return &wireError{Code: code, Message: msg, Data: data}
}
