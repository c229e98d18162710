package grammar

import (
	"fmt"

	"github.com/jaimegarza/syntax-sub000/grammar/symbol"
)

type productionNum int

// The augmented production `$start → root` is always the production 0.
const productionNumStart = productionNum(0)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int

	// prec is inherited from the right-most terminal symbol of the RHS unless %prec overrides it.
	prec    int
	precSym symbol.Symbol

	row int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		lhs:     lhs,
		rhs:     rhs,
		rhsLen:  len(rhs),
		precSym: symbol.SymbolNil,
	}, nil
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

type productionSet struct {
	prods     []*production
	lhs2Prods map[symbol.Symbol][]*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
	}
}

// append numbers a production in the order of addition.
func (ps *productionSet) append(prod *production) {
	prod.num = productionNum(len(ps.prods))
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num < 0 || num.Int() >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions in number order.
func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}
