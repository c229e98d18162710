package compressor

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

// ComputeDefaultAction returns the reduce action that appears most often in the terminal columns
// of a row. The first one found wins a tie, and a row without reduce actions defaults to 0.
func ComputeDefaultAction(row []int, termCount int) int {
	def := 0
	defCount := 0
	for i := 0; i < termCount; i++ {
		if row[i] >= 0 || row[i] == def {
			continue
		}
		count := 0
		for j := 0; j < termCount; j++ {
			if row[j] == row[i] {
				count++
			}
		}
		if count > defCount {
			defCount = count
			def = row[i]
		}
	}
	return def
}

// PackActions lists the terminal columns that are neither errors nor the default action.
func PackActions(row []int, termCount int, def int) []*spec.Action {
	var acts []*spec.Action
	for i := 0; i < termCount; i++ {
		if row[i] == 0 || row[i] == def {
			continue
		}
		acts = append(acts, &spec.Action{
			Symbol: i,
			Target: row[i],
		})
	}
	return acts
}

func equalActions(a, b []*spec.Action) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if *a[i] != *b[i] {
			return false
		}
	}
	return true
}

// Packer compacts the rows of states one by one. Rows must be packed in state order because an
// action list can only be shared with an earlier state.
type Packer struct {
	termCount    int
	termNames    []string
	nonTermNames []string

	states      []*spec.PackedState
	stateActs   [][]*spec.Action
	sharedWith  []int
	actions     []*spec.Action
	fingerprint map[string][]int
	gotos       [][]*spec.GoTo
	messages    []string
}

// NewPacker takes the full names of the terminal symbols, indexed by symbol ID, and of the
// non-terminal symbols, indexed by ID minus the terminal count. The full names make up error
// messages.
func NewPacker(termFullNames, nonTermFullNames []string) *Packer {
	return &Packer{
		termCount:    len(termFullNames),
		termNames:    termFullNames,
		nonTermNames: nonTermFullNames,
		fingerprint:  map[string][]int{},
		gotos:        make([][]*spec.GoTo, len(nonTermFullNames)),
	}
}

// Pack compacts the row of the next state. The row has a column per symbol ID.
func (p *Packer) Pack(row []int) (*spec.PackedState, error) {
	if len(row) != p.termCount+len(p.nonTermNames) {
		return nil, fmt.Errorf("unexpected row length; want: %v, got: %v", p.termCount+len(p.nonTermNames), len(row))
	}
	num := len(p.states)

	def := ComputeDefaultAction(row, p.termCount)
	acts := PackActions(row, p.termCount, def)

	state := &spec.PackedState{
		Number:      num,
		Default:     def,
		ActionCount: len(acts),
	}
	shared, err := p.findActions(acts)
	if err != nil {
		return nil, err
	}
	if shared >= 0 {
		acts = p.stateActs[shared]
		state.Position = p.states[shared].Position
		tracer().Debugf("state %v shares the actions of state %v", num, shared)
	} else {
		state.Position = len(p.actions)
		p.actions = append(p.actions, acts...)
	}
	p.states = append(p.states, state)
	p.stateActs = append(p.stateActs, acts)
	p.sharedWith = append(p.sharedWith, shared)

	var shifts []*spec.Action
	for _, act := range acts {
		if act.Target > 0 && act.Target != spec.ActionAccept {
			shifts = append(shifts, act)
		}
	}
	var gotoSyms []int
	for i := range p.nonTermNames {
		dest := row[p.termCount+i]
		if dest == 0 {
			continue
		}
		gotoSyms = append(gotoSyms, i)
		p.gotos[i] = append(p.gotos[i], &spec.GoTo{
			Origin:      num,
			Destination: dest,
		})
	}
	state.Message = p.addErrorMessage(p.errorMessage(shifts, gotoSyms))

	return state, nil
}

// findActions returns an earlier state having the same action list, or -1.
func (p *Packer) findActions(acts []*spec.Action) (int, error) {
	vals := make([]spec.Action, len(acts))
	for i, act := range acts {
		vals[i] = *act
	}
	key, err := structhash.Hash(vals, 1)
	if err != nil {
		return -1, err
	}
	for _, s := range p.fingerprint[key] {
		if equalActions(p.stateActs[s], acts) {
			return s, nil
		}
	}
	p.fingerprint[key] = append(p.fingerprint[key], len(p.states))
	return -1, nil
}

func (p *Packer) errorMessage(shifts []*spec.Action, gotoSyms []int) string {
	t := len(shifts)
	g := len(gotoSyms)
	switch {
	case t == 1 && g == 0:
		return p.termNames[shifts[0].Symbol] + " expected"
	case g == 1 && t == 0:
		return "Expecting " + p.nonTermNames[gotoSyms[0]]
	case t > 1 && (t > g || g == 0):
		var b strings.Builder
		for i, act := range shifts {
			if i > 0 {
				if i == t-1 {
					b.WriteString(" or ")
				} else {
					b.WriteString(", ")
				}
			}
			b.WriteString(p.termNames[act.Symbol])
		}
		b.WriteString(" expected")
		return b.String()
	case g > 0:
		return "Expecting " + p.nonTermNames[gotoSyms[0]]
	}
	return ""
}

func (p *Packer) addErrorMessage(msg string) int {
	if msg == "" {
		return spec.MessageNil
	}
	for i, m := range p.messages {
		if m == msg {
			return i
		}
	}
	p.messages = append(p.messages, msg)
	return len(p.messages) - 1
}

// SharedWith returns the earlier state whose action list the state reuses, or -1.
func (p *Packer) SharedWith(state int) int {
	if state < 0 || state >= len(p.sharedWith) {
		return -1
	}
	return p.sharedWith[state]
}

// Actions returns the explicit actions of a packed state.
func (p *Packer) Actions(state int) []*spec.Action {
	if state < 0 || state >= len(p.stateActs) {
		return nil
	}
	return p.stateActs[state]
}

type PackedTable struct {
	States        []*spec.PackedState
	Actions       []*spec.Action
	GoTos         []*spec.GoTo
	GoToPositions []int
	ErrorMessages []string
}

// Finish compacts the gotos and returns the packed tables. The most frequent destination of each
// non-terminal symbol becomes a catch-all entry closing its list, and a non-terminal symbol
// without gotos gets the position -1.
func (p *Packer) Finish() *PackedTable {
	var gotos []*spec.GoTo
	positions := make([]int, len(p.nonTermNames))
	for i, gs := range p.gotos {
		if len(gs) == 0 {
			positions[i] = -1
			continue
		}
		def := defaultGoTo(gs)
		positions[i] = len(gotos)
		for _, g := range gs {
			if g.Destination == def {
				continue
			}
			gotos = append(gotos, g)
		}
		gotos = append(gotos, &spec.GoTo{
			Origin:      spec.GoToDefaultOrigin,
			Destination: def,
		})
	}

	tracer().Infof("packed %v states into %v actions, %v gotos, and %v error messages", len(p.states), len(p.actions), len(gotos), len(p.messages))

	return &PackedTable{
		States:        p.states,
		Actions:       p.actions,
		GoTos:         gotos,
		GoToPositions: positions,
		ErrorMessages: p.messages,
	}
}

// defaultGoTo returns the most frequent destination. The first one found wins a tie.
func defaultGoTo(gotos []*spec.GoTo) int {
	def := 0
	defCount := 0
	for _, g := range gotos {
		if g.Destination == def {
			continue
		}
		count := 0
		for _, h := range gotos {
			if h.Destination == g.Destination {
				count++
			}
		}
		if count > defCount {
			defCount = count
			def = g.Destination
		}
	}
	return def
}
