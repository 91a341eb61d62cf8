package crdt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrama-db/agrama/pkg/errors"
	"github.com/agrama-db/agrama/pkg/types"
)

// EventEmitter is satisfied by anything that can publish a broadcast
// event; core/events.Broadcaster implements it with the same method
// set core/primitives.EventEmitter expects, so a single broadcaster
// instance can serve both.
type EventEmitter interface {
	Emit(ctx context.Context, evt types.Event)
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, types.Event) {}

// ConflictMetrics observes each detected conflict's resolution
// strategy (§11 DOMAIN STACK: "CRDT conflict counts"). Engine calls it
// once per resolved ConflictEvent.
type ConflictMetrics interface {
	RecordConflict(docID, strategy string)
}

type noopConflictMetrics struct{}

func (noopConflictMetrics) RecordConflict(string, string) {}

// Config controls Engine construction.
type Config struct {
	// BufferCapacity caps how many causally-unready operations a single
	// document's buffer retains before ErrCausalityViolation fires.
	// 0 means unbounded.
	BufferCapacity int
	// Resolvers supplies the named conflict-resolution strategies.
	// Defaults to DefaultResolverRegistry() when nil.
	Resolvers *ResolverRegistry
	// DefaultStrategy names the resolver consulted for new documents.
	// Defaults to "last_writer_wins".
	DefaultStrategy string
	// KnownAgent, if set, is consulted before applying any operation;
	// returning false yields ErrUnknownAgent. Wired to core/session's
	// registry in the server so a CRDT op cannot reference an agent
	// identity that was never admitted. nil means no restriction.
	KnownAgent func(agentID string) bool
	Events     EventEmitter
	Metrics    ConflictMetrics
}

// Engine tracks one Document per document key and implements §4.7's
// five operations.
type Engine struct {
	mu   sync.Mutex
	docs map[string]*Document
	cfg  Config
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Resolvers == nil {
		cfg.Resolvers = DefaultResolverRegistry()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = "last_writer_wins"
	}
	if cfg.Events == nil {
		cfg.Events = noopEmitter{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopConflictMetrics{}
	}
	return &Engine{docs: make(map[string]*Document), cfg: cfg}
}

func (e *Engine) document(docID string) *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.docs[docID]
	if !ok {
		doc = newDocument(docID, e.cfg.Resolvers.Get(e.cfg.DefaultStrategy), e.cfg.BufferCapacity)
		e.docs[docID] = doc
	}
	return doc
}

func (e *Engine) checkAgent(agentID string) error {
	if e.cfg.KnownAgent != nil && !e.cfg.KnownAgent(agentID) {
		return errors.ErrUnknownAgent.WithDetail("agent_id", agentID)
	}
	return nil
}

// ApplyLocal mints a new operation at agentID's site and applies it
// immediately (a local origin is always causally ready), returning the
// finished Operation — including its minted ID, position, and vector
// clock — so the caller can broadcast it to other replicas. kind is
// OpInsert (anchor = the position to insert after, "" for the start)
// or OpDelete (anchor = the position to remove).
func (e *Engine) ApplyLocal(ctx context.Context, docID, agentID string, kind OpKind, value, anchor string) (Operation, error) {
	if err := e.checkAgent(agentID); err != nil {
		return Operation{}, err
	}

	doc := e.document(docID)
	doc.mu.Lock()

	doc.Clock.Tick(agentID)
	clock := doc.Clock.Clone()

	position := anchor
	if kind == OpInsert {
		lo, hi := doc.neighbors(anchor)
		position = newPosition(lo, hi, agentID)
	}

	op := Operation{
		ID:        uuid.NewString(),
		DocID:     docID,
		AgentID:   agentID,
		Kind:      kind,
		Position:  position,
		Value:     value,
		Clock:     clock,
		Timestamp: time.Now().UnixMilli(),
		State:     StateApplied,
	}

	var conflicts []ConflictEvent
	e.applyReadyLocked(doc, op, &conflicts)
	e.drainLocked(doc, &conflicts)
	doc.mu.Unlock()

	e.emitOpAndConflicts(ctx, op, conflicts)
	return op, nil
}

// ApplyRemote applies an operation received from another replica,
// buffering it if its causal dependencies have not all arrived yet.
func (e *Engine) ApplyRemote(ctx context.Context, op Operation) error {
	if err := e.checkAgent(op.AgentID); err != nil {
		return err
	}
	doc := e.document(op.DocID)
	conflicts, err := e.applyRemoteToDoc(doc, op)
	if err != nil {
		return err
	}
	e.emitOpAndConflicts(ctx, op, conflicts)
	return nil
}

func (e *Engine) emitOpAndConflicts(ctx context.Context, op Operation, conflicts []ConflictEvent) {
	e.cfg.Events.Emit(ctx, types.Event{Type: types.EventCRDTOperation, Payload: op, Timestamp: op.Timestamp})
	for _, c := range conflicts {
		e.cfg.Events.Emit(ctx, types.Event{Type: types.EventConflictResolved, Payload: c, Timestamp: c.Timestamp})
	}
}

func (e *Engine) applyRemoteToDoc(doc *Document, op Operation) ([]ConflictEvent, error) {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	if !op.ReadyAt(doc.Clock) {
		op.State = StateBuffered
		return nil, doc.buffer.add(op)
	}
	var conflicts []ConflictEvent
	e.applyReadyLocked(doc, op, &conflicts)
	e.drainLocked(doc, &conflicts)
	return conflicts, nil
}

// applyReadyLocked mutates doc for an op already known to be causally
// ready, merges doc's clock, and resolves any detected conflict,
// appending it to *conflicts for the caller to broadcast once doc.mu is
// released. Caller must hold doc.mu.
func (e *Engine) applyReadyLocked(doc *Document, op Operation, conflicts *[]ConflictEvent) {
	conflict := doc.apply(op)
	doc.Clock = doc.Clock.Merge(op.Clock)

	if conflict == nil {
		return
	}
	winnerID, strategy := doc.resolver.Resolve(conflict.A, conflict.B)
	conflict.Strategy = strategy
	conflict.Winner = winnerID
	conflict.Timestamp = op.Timestamp
	doc.ConflictLog = append(doc.ConflictLog, *conflict)
	*conflicts = append(*conflicts, *conflict)
	e.cfg.Metrics.RecordConflict(doc.ID, strategy)
}

func (e *Engine) drainLocked(doc *Document, conflicts *[]ConflictEvent) {
	doc.buffer.drain(
		func() types.VectorClock { return doc.Clock },
		func(op Operation) error {
			e.applyReadyLocked(doc, op, conflicts)
			return nil
		},
	)
}

// Synchronize merges docAID's and docBID's operation logs into each
// other by causal order, converging both documents to the same state.
// Operations missing from one side are replayed into it through the
// same buffer-then-drain path ApplyRemote uses, so replay order does
// not need to already respect causality.
func (e *Engine) Synchronize(docAID, docBID string) error {
	docA := e.document(docAID)
	docB := e.document(docBID)

	docA.mu.Lock()
	opsA := append([]Operation(nil), docA.Operations...)
	docA.mu.Unlock()

	docB.mu.Lock()
	opsB := append([]Operation(nil), docB.Operations...)
	bHas := make(map[string]struct{}, len(opsB))
	for _, op := range opsB {
		bHas[op.ID] = struct{}{}
	}
	docB.mu.Unlock()

	for _, op := range opsA {
		if _, ok := bHas[op.ID]; ok {
			continue
		}
		if _, err := e.applyRemoteToDoc(docB, op); err != nil {
			return err
		}
	}

	docA.mu.Lock()
	aHas := make(map[string]struct{}, len(docA.Operations))
	for _, op := range docA.Operations {
		aHas[op.ID] = struct{}{}
	}
	docA.mu.Unlock()

	for _, op := range opsB {
		if _, ok := aHas[op.ID]; ok {
			continue
		}
		if _, err := e.applyRemoteToDoc(docA, op); err != nil {
			return err
		}
	}
	return nil
}

// CursorUpdate records agentID's cursor position within docID.
func (e *Engine) CursorUpdate(docID, agentID, position string) error {
	if err := e.checkAgent(agentID); err != nil {
		return err
	}
	doc := e.document(docID)
	doc.mu.Lock()
	doc.Cursors[agentID] = position
	doc.Agents[agentID] = struct{}{}
	doc.mu.Unlock()
	return nil
}

// Conflicts returns docID's full conflict history, oldest first.
func (e *Engine) Conflicts(docID string) ([]ConflictEvent, error) {
	e.mu.Lock()
	doc, ok := e.docs[docID]
	e.mu.Unlock()
	if !ok {
		return nil, errors.ErrDocumentNotFound.WithDetail("doc_id", docID)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	out := make([]ConflictEvent, len(doc.ConflictLog))
	copy(out, doc.ConflictLog)
	return out, nil
}

// Text returns docID's current materialized content.
func (e *Engine) Text(docID string) (string, error) {
	e.mu.Lock()
	doc, ok := e.docs[docID]
	e.mu.Unlock()
	if !ok {
		return "", errors.ErrDocumentNotFound.WithDetail("doc_id", docID)
	}
	return doc.Text(), nil
}
