package crdt

// Resolver picks a winner between two operations that concurrently
// touched the same position. It returns the ID of the operation that
// should remain authoritative and the strategy name actually applied,
// which may differ from the one requested if that strategy declined
// to decide and fell back to the default (§4.7 permits this).
type Resolver interface {
	Resolve(a, b Operation) (winnerID, strategy string)
}

// LWWResolver is the default resolver: last-writer-wins by
// (vector_clock_sum, agent_id), per §4.7.
type LWWResolver struct{}

func (LWWResolver) Resolve(a, b Operation) (string, string) {
	as, bs := a.Clock.Sum(), b.Clock.Sum()
	switch {
	case as > bs:
		return a.ID, "last_writer_wins"
	case bs > as:
		return b.ID, "last_writer_wins"
	case a.AgentID > b.AgentID:
		return a.ID, "last_writer_wins"
	default:
		return b.ID, "last_writer_wins"
	}
}

// AgentPriorityResolver picks a winner by a configured priority list,
// earlier entries winning. Falls back to LWWResolver when neither
// operation's agent appears in Priority.
type AgentPriorityResolver struct {
	Priority []string
}

func (r AgentPriorityResolver) Resolve(a, b Operation) (string, string) {
	ai, bi := indexOf(r.Priority, a.AgentID), indexOf(r.Priority, b.AgentID)
	switch {
	case ai >= 0 && (bi < 0 || ai < bi):
		return a.ID, "agent_priority"
	case bi >= 0:
		return b.ID, "agent_priority"
	default:
		id, _ := LWWResolver{}.Resolve(a, b)
		return id, "agent_priority_fallback_lww"
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// SemanticMergeResolver and SyntaxPreservingResolver both require
// merge logic specific to the edited content's meaning or grammar,
// which this engine has no way to evaluate generically; both decline
// and fall back to LWWResolver, exactly as §4.7 allows for a strategy
// that turns out to be unavailable.
type SemanticMergeResolver struct{}

func (SemanticMergeResolver) Resolve(a, b Operation) (string, string) {
	id, _ := LWWResolver{}.Resolve(a, b)
	return id, "semantic_merge_fallback_lww"
}

type SyntaxPreservingResolver struct{}

func (SyntaxPreservingResolver) Resolve(a, b Operation) (string, string) {
	id, _ := LWWResolver{}.Resolve(a, b)
	return id, "syntax_preserving_fallback_lww"
}

// HumanInterventionResolver never auto-resolves: it reports no winner,
// leaving the conflict logged for an operator to settle out of band.
// Both operations stay visible in the document until that happens.
type HumanInterventionResolver struct{}

func (HumanInterventionResolver) Resolve(Operation, Operation) (string, string) {
	return "", "human_intervention"
}

// ResolverRegistry maps a strategy name to a Resolver, falling back to
// a configured default for unregistered names.
type ResolverRegistry struct {
	resolvers map[string]Resolver
	fallback  Resolver
}

// DefaultResolverRegistry registers the built-in strategies that need
// no configuration ("last_writer_wins", "semantic_merge",
// "syntax_preserving", "human_intervention"), with LWWResolver as both
// the "last_writer_wins" entry and the registry-wide fallback.
// AgentPriorityResolver needs a priority list and is not registered, so
// "agent_priority" resolves to the fallback until a caller Registers it.
func DefaultResolverRegistry() *ResolverRegistry {
	r := &ResolverRegistry{resolvers: make(map[string]Resolver), fallback: LWWResolver{}}
	r.Register("last_writer_wins", LWWResolver{})
	r.Register("semantic_merge", SemanticMergeResolver{})
	r.Register("syntax_preserving", SyntaxPreservingResolver{})
	r.Register("human_intervention", HumanInterventionResolver{})
	return r
}

// Register adds or replaces the resolver for name.
func (r *ResolverRegistry) Register(name string, resolver Resolver) {
	r.resolvers[name] = resolver
}

// Get returns the resolver registered for name, or the registry's
// fallback if name is unrecognized.
func (r *ResolverRegistry) Get(name string) Resolver {
	if resolver, ok := r.resolvers[name]; ok {
		return resolver
	}
	return r.fallback
}
