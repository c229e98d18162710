package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/compressor"
	verr "github.com/jaimegarza/syntax-sub000/error"
	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// describeAction decodes an entry of a row. A positive entry shifts, a negative entry reduces by
// the production -entry, and 0 is an error.
func describeAction(act int) (ActionType, stateNum, productionNum) {
	switch {
	case act == spec.ActionAccept:
		return ActionTypeAccept, stateNumNil, productionNumStart
	case act > 0:
		return ActionTypeShift, stateNum(act), productionNumStart
	case act < 0:
		return ActionTypeReduce, stateNumNil, productionNum(-act)
	}
	return ActionTypeError, stateNumNil, productionNumStart
}

func newReduceAction(prod productionNum) int {
	return -prod.Int()
}

type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

const (
	ResolvedByPrec      conflictResolutionMethod = 1
	ResolvedByAssoc     conflictResolutionMethod = 2
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
)

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	nextState  int
	prodNum    productionNum
	resolvedBy conflictResolutionMethod
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	prodNum1   productionNum
	prodNum2   productionNum
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// lrTableBuilder completes the states of an automaton one by one: it adds the reduce actions to
// the row of a state, resolves conflicts, and hands the row over to the packer. In the tabular
// form the rows are kept as they are.
type lrTableBuilder struct {
	algorithm spec.Algorithm
	prods     *productionSet
	symTab    *symbol.SymbolTableReader
	follow    *followSet
	augStart  symbol.Symbol
	termCount int

	packer *compressor.Packer
	rows   [][]int

	conflicts []conflict
	warnings  verr.SpecErrors
}

func (b *lrTableBuilder) completeState(s *state) error {
	if s.num.Int() != len(b.rows) {
		return fmt.Errorf("states must be completed in number order; want: %v, got: %v", len(b.rows), s.num)
	}

	row := make([]int, len(s.row))
	copy(row, s.row)
	if err := b.computeReduce(s, row); err != nil {
		return err
	}
	b.rows = append(b.rows, row)

	if b.packer == nil {
		return nil
	}
	_, err := b.packer.Pack(row)
	return err
}

// computeReduce writes the reduce actions of the dots at the end of their productions. Dots are
// visited kernel first, and lookahead symbols in ID order, so conflicts are always resolved in
// the same order.
func (b *lrTableBuilder) computeReduce(s *state, row []int) error {
	for _, d := range s.allDots() {
		if !d.reducible() {
			continue
		}
		if d.prod.lhs == b.augStart {
			row[symbol.SymbolEOF] = spec.ActionAccept
			continue
		}

		var la []symbol.Symbol
		if b.algorithm == spec.AlgorithmLALR {
			la = d.lookAhead.symbols()
		} else {
			flw, err := b.follow.find(d.prod.lhs)
			if err != nil {
				return err
			}
			la = flw.symbols.symbols()
		}

		for _, t := range la {
			b.writeReduceAction(s, row, t, d.prod)
		}
	}

	return nil
}

// writeReduceAction writes a reduce action to a row. A shift/reduce conflict is resolved by
// precedence and associativity, and a reduce/reduce conflict by adopting the production with the
// greater number. Conflicts that precedence and associativity don't resolve become warnings. An
// accept action is never replaced.
func (b *lrTableBuilder) writeReduceAction(s *state, row []int, sym symbol.Symbol, prod *production) {
	ty, _, p := describeAction(row[sym])
	switch ty {
	case ActionTypeError:
		row[sym] = newReduceAction(prod.num)
	case ActionTypeAccept:
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:      s.num,
			sym:        sym,
			nextState:  row[sym],
			prodNum:    prod.num,
			resolvedBy: ResolvedByShift,
		})
		b.warnings = append(b.warnings, &verr.SpecError{
			Cause:   semErrSRConflict,
			Detail:  fmt.Sprintf("state %v [%v Accept Reduce:%v]", s.num, b.symTab.FullName(sym), prod.num),
			Row:     prod.row,
			Warning: true,
		})
	case ActionTypeShift:
		act, method := b.resolveSRConflict(sym, prod)
		b.conflicts = append(b.conflicts, &shiftReduceConflict{
			state:      s.num,
			sym:        sym,
			nextState:  row[sym],
			prodNum:    prod.num,
			resolvedBy: method,
		})
		if method == ResolvedByShift {
			b.warnings = append(b.warnings, &verr.SpecError{
				Cause:   semErrSRConflict,
				Detail:  fmt.Sprintf("state %v [%v Shift:%v Reduce:%v]", s.num, b.symTab.FullName(sym), row[sym], prod.num),
				Row:     prod.row,
				Warning: true,
			})
		}
		if act == ActionTypeReduce {
			row[sym] = newReduceAction(prod.num)
		}
	case ActionTypeReduce:
		if p == prod.num {
			return
		}
		b.conflicts = append(b.conflicts, &reduceReduceConflict{
			state:      s.num,
			sym:        sym,
			prodNum1:   p,
			prodNum2:   prod.num,
			resolvedBy: ResolvedByProdOrder,
		})
		adopted := p
		if prod.num > p {
			adopted = prod.num
		}
		b.warnings = append(b.warnings, &verr.SpecError{
			Cause:   semErrRRConflict,
			Detail:  fmt.Sprintf("state %v [%v Reduce:%v Reduce:%v]", s.num, b.symTab.FullName(sym), p, prod.num),
			Row:     prod.row,
			Warning: true,
		})
		row[sym] = newReduceAction(adopted)
	}
}

// resolveSRConflict chooses between shifting a terminal symbol and reducing by a production. A
// greater precedence binds tighter. Without precedence on either side the shift wins.
func (b *lrTableBuilder) resolveSRConflict(sym symbol.Symbol, prod *production) (ActionType, conflictResolutionMethod) {
	var symPrec int
	assoc := symbol.AssocNone
	if e, ok := b.symTab.Entry(sym); ok {
		symPrec = e.Prec
		assoc = e.Assoc
	}
	prodPrec := prod.prec
	if symPrec == 0 || prodPrec == 0 {
		return ActionTypeShift, ResolvedByShift
	}
	if symPrec == prodPrec {
		switch assoc {
		case symbol.AssocLeft:
			return ActionTypeReduce, ResolvedByAssoc
		case symbol.AssocRight:
			return ActionTypeShift, ResolvedByAssoc
		}
		return ActionTypeShift, ResolvedByShift
	}
	if symPrec > prodPrec {
		return ActionTypeShift, ResolvedByPrec
	}
	return ActionTypeReduce, ResolvedByPrec
}
