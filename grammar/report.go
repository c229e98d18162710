package grammar

import (
	"fmt"
	"sort"

	"github.com/jaimegarza/syntax-sub000/compressor"
	verr "github.com/jaimegarza/syntax-sub000/error"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

type reportSource struct {
	gram      *Grammar
	algorithm spec.Algorithm
	automaton *automatonBuilder
	table     *lrTableBuilder
	packed    *compressor.PackedTable
	terms     []*spec.Terminal
	nonTerms  []*spec.NonTerminal
	warnings  verr.SpecErrors
}

func genReport(src *reportSource) (*spec.Report, error) {
	var prods []*spec.Production
	{
		ps := src.gram.productionSet.getAllProductions()
		prods = make([]*spec.Production, len(ps))
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, sym := range p.rhs {
				rhs[i] = sym.Int()
			}
			prods[p.num] = &spec.Production{
				Number:     p.num.Int(),
				LHS:        p.lhs.Int(),
				RHS:        rhs,
				Precedence: p.prec,
				Row:        p.row,
			}
		}
	}

	var states []*spec.State
	{
		srConflicts := map[stateNum][]*shiftReduceConflict{}
		rrConflicts := map[stateNum][]*reduceReduceConflict{}
		for _, con := range src.table.conflicts {
			switch c := con.(type) {
			case *shiftReduceConflict:
				srConflicts[c.state] = append(srConflicts[c.state], c)
			case *reduceReduceConflict:
				rrConflicts[c.state] = append(rrConflicts[c.state], c)
			}
		}

		termCount := len(src.terms)
		states = make([]*spec.State, len(src.automaton.states))
		for _, s := range src.automaton.states {
			if s.num.Int() >= len(src.table.rows) {
				return nil, fmt.Errorf("state %v was not completed", s.num)
			}
			row := src.table.rows[s.num]

			st := &spec.State{
				Number:     s.num.Int(),
				From:       s.from.Int(),
				Symbol:     s.sym.Int(),
				Kernel:     genItems(s.kernel),
				Closure:    genItems(s.closure),
				Default:    0,
				Message:    spec.MessageNil,
				SharedWith: -1,
			}

			for sym, act := range row[:termCount] {
				ty, next, prod := describeAction(act)
				switch ty {
				case ActionTypeAccept:
					st.Accept = true
				case ActionTypeShift:
					st.Shift = append(st.Shift, &spec.Transition{
						Symbol: sym,
						State:  next.Int(),
					})
				case ActionTypeReduce:
					found := false
					for _, r := range st.Reduce {
						if r.Production == prod.Int() {
							r.LookAhead = append(r.LookAhead, sym)
							found = true
							break
						}
					}
					if !found {
						st.Reduce = append(st.Reduce, &spec.Reduce{
							LookAhead:  []int{sym},
							Production: prod.Int(),
						})
					}
				}
			}
			sort.Slice(st.Reduce, func(i, j int) bool {
				return st.Reduce[i].Production < st.Reduce[j].Production
			})
			for i, dest := range row[termCount:] {
				if dest == 0 {
					continue
				}
				st.GoTo = append(st.GoTo, &spec.Transition{
					Symbol: termCount + i,
					State:  dest,
				})
			}

			st.SRConflict = []*spec.SRConflict{}
			for _, c := range srConflicts[s.num] {
				conflict := &spec.SRConflict{
					Symbol:     c.sym.Int(),
					State:      c.nextState,
					Production: c.prodNum.Int(),
					ResolvedBy: c.resolvedBy.Int(),
				}
				ty, next, prod := describeAction(row[c.sym])
				switch ty {
				case ActionTypeShift, ActionTypeAccept:
					n := next.Int()
					if ty == ActionTypeAccept {
						n = spec.ActionAccept
					}
					conflict.AdoptedState = &n
				case ActionTypeReduce:
					n := prod.Int()
					conflict.AdoptedProduction = &n
				}
				st.SRConflict = append(st.SRConflict, conflict)
			}

			st.RRConflict = []*spec.RRConflict{}
			for _, c := range rrConflicts[s.num] {
				_, _, prod := describeAction(row[c.sym])
				st.RRConflict = append(st.RRConflict, &spec.RRConflict{
					Symbol:            c.sym.Int(),
					Production1:       c.prodNum1.Int(),
					Production2:       c.prodNum2.Int(),
					AdoptedProduction: prod.Int(),
					ResolvedBy:        c.resolvedBy.Int(),
				})
			}

			if src.packed != nil {
				ps := src.packed.States[s.num]
				st.Default = ps.Default
				st.Message = ps.Message
				st.SharedWith = src.table.packer.SharedWith(s.num.Int())
				st.Position = ps.Position
				st.ActionCount = ps.ActionCount
			}

			states[s.num] = st
		}
	}

	report := &spec.Report{
		Name:         src.gram.name,
		Algorithm:    src.algorithm,
		Terminals:    src.terms,
		NonTerminals: src.nonTerms,
		Productions:  prods,
		States:       states,
		Packed:       src.packed != nil,
	}
	if src.packed != nil {
		report.Actions = src.packed.Actions
		report.GoTos = src.packed.GoTos
		report.GoToPositions = src.packed.GoToPositions
		report.ErrorMessages = src.packed.ErrorMessages
	}
	for _, w := range src.warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}

	return report, nil
}

func genItems(dots []*dot) []*spec.Item {
	items := make([]*spec.Item, len(dots))
	for i, d := range dots {
		items[i] = &spec.Item{
			Production: d.prod.num.Int(),
			Dot:        d.pos,
			LookAhead:  d.lookAhead.ints(),
			Carry:      d.carry,
		}
	}
	return items
}
