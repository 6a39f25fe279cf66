package emitter

// Scope is one lexical bucket of declared names, matching spec's Scope
// record: variables, functions, structs, and buffers are tracked
// separately so a struct and a variable may share a name without
// colliding.
type Scope struct {
	Variables map[string]struct{}
	Functions map[string]struct{}
	Structs   map[string]struct{}
	Buffers   map[string]struct{}
}

func newScope() *Scope {
	return &Scope{
		Variables: make(map[string]struct{}),
		Functions: make(map[string]struct{}),
		Structs:   make(map[string]struct{}),
		Buffers:   make(map[string]struct{}),
	}
}

// CompileState carries the emitter's counters and scope stack across a
// single compile. It is shared by reference through #include expansion so
// binding/location counters stay globally monotonic and names declared in
// an included file remain visible to the includer afterward.
type CompileState struct {
	TabDepth      uint
	BufferCounter uint
	InLocation    uint
	OutLocation   uint
	IncludeBase   string
	ScopeStack    []*Scope
}

// NewCompileState starts a fresh compile rooted at includeBase, the
// directory #include paths resolve against.
func NewCompileState(includeBase string) *CompileState {
	return &CompileState{IncludeBase: includeBase}
}
