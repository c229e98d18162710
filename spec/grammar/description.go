package grammar

type Terminal struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Token         int    `json:"token"`
	Error         bool   `json:"error,omitempty"`
	Precedence    int    `json:"prec,omitempty"`
	Associativity string `json:"assoc,omitempty"`
	Type          string `json:"type,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
}

type NonTerminal struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Type     string `json:"type,omitempty"`
	First    []int  `json:"first,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
	Follow   []int  `json:"follow,omitempty"`
}

type Production struct {
	Number     int   `json:"number"`
	LHS        int   `json:"lhs"`
	RHS        []int `json:"rhs"`
	Precedence int   `json:"prec"`
	Row        int   `json:"row"`
}

// Item is a production with a dot. Carry reports that the lookahead includes the lookahead of the
// item that produced this item by closure.
type Item struct {
	Production int   `json:"production"`
	Dot        int   `json:"dot"`
	LookAhead  []int `json:"look_ahead,omitempty"`
	Carry      bool  `json:"carry,omitempty"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol            int  `json:"symbol"`
	State             int  `json:"state"`
	Production        int  `json:"production"`
	AdoptedState      *int `json:"adopted_state"`
	AdoptedProduction *int `json:"adopted_production"`
	ResolvedBy        int  `json:"resolved_by"`
}

type RRConflict struct {
	Symbol            int `json:"symbol"`
	Production1       int `json:"production_1"`
	Production2       int `json:"production_2"`
	AdoptedProduction int `json:"adopted_production"`
	ResolvedBy        int `json:"resolved_by"`
}

// State describes a state of the automaton. From and Symbol are -1 for the initial state.
// SharedWith is the earlier state whose action list this state reuses, or -1. Position and
// ActionCount locate the packed actions of the state.
type State struct {
	Number      int           `json:"number"`
	From        int           `json:"from"`
	Symbol      int           `json:"symbol"`
	Kernel      []*Item       `json:"kernel"`
	Closure     []*Item       `json:"closure"`
	Shift       []*Transition `json:"shift"`
	Reduce      []*Reduce     `json:"reduce"`
	GoTo        []*Transition `json:"goto"`
	Accept      bool          `json:"accept,omitempty"`
	SRConflict  []*SRConflict `json:"sr_conflict"`
	RRConflict  []*RRConflict `json:"rr_conflict"`
	Default     int           `json:"default"`
	Message     int           `json:"message"`
	SharedWith  int           `json:"shared_with"`
	Position    int           `json:"position"`
	ActionCount int           `json:"action_count"`
}

type Report struct {
	Name          string         `json:"name"`
	Algorithm     Algorithm      `json:"algorithm"`
	Terminals     []*Terminal    `json:"terminals"`
	NonTerminals  []*NonTerminal `json:"non_terminals"`
	Productions   []*Production  `json:"productions"`
	States        []*State       `json:"states"`
	Packed        bool           `json:"packed"`
	Actions       []*Action      `json:"actions,omitempty"`
	GoTos         []*GoTo        `json:"gotos,omitempty"`
	GoToPositions []int          `json:"goto_positions,omitempty"`
	ErrorMessages []string       `json:"error_messages,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}
