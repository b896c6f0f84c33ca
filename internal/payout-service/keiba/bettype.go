package keiba

import (
	"sort"
	"strconv"
	"strings"
)

// Rule define como uma combinação é reduzida à forma canônica.
type Rule int

// RuleSingle: um único cavalo (単勝, 複勝).
// RuleOrdered: ordem de chegada importa (三連単).
// RuleUnordered: conjunto, ordem irrelevante (枠連, 枠単, 馬連, 馬単, ワイド, 三連複).
const (
	RuleNone Rule = iota
	RuleSingle
	RuleOrdered
	RuleUnordered
)

// Rótulos oficiais da tabela de pagamentos.
const (
	Win             = "単勝"
	Place           = "複勝"
	BracketQuinella = "枠連"
	BracketExacta   = "枠単"
	Quinella        = "馬連"
	Wide            = "ワイド"
	Exacta          = "馬単"
	Trio            = "三連複"
	Trifecta        = "三連単"
)

const (
	arrow     = "→"
	setSep    = " - "
	unitStake = 100
)

var betTypes = map[string]Rule{
	Win:             RuleSingle,
	Place:           RuleSingle,
	BracketQuinella: RuleUnordered,
	Quinella:        RuleUnordered,
	Wide:            RuleUnordered,
	Trio:            RuleUnordered,
	BracketExacta:   RuleUnordered,
	Exacta:          RuleUnordered,
	Trifecta:        RuleOrdered,
}

// RuleFor retorna a regra de normalização do tipo de aposta.
func RuleFor(betType string) (Rule, bool) {
	r, ok := betTypes[strings.TrimSpace(betType)]
	return r, ok
}

// multiLine indica os tipos cujas células trazem várias entradas separadas por <br>.
func multiLine(betType string) bool {
	switch betType {
	case Place, Wide, Trifecta:
		return true
	}
	return false
}

// Normalize reduz uma combinação (já separada em elementos) à forma canônica.
// A mesma função é usada para apostas e para registros oficiais.
func (r Rule) Normalize(parts []string) string {
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		if e := trimZeros(p); e != "" {
			elems = append(elems, e)
		}
	}
	if len(elems) == 0 {
		return ""
	}
	switch r {
	case RuleSingle:
		// "1-2" num tipo de cavalo único não é o cavalo 12
		if len(elems) != 1 {
			return ""
		}
		return elems[0]
	case RuleOrdered:
		return strings.Join(elems, arrow)
	case RuleUnordered:
		sort.Slice(elems, func(i, j int) bool { return lessNumeric(elems[i], elems[j]) })
		return strings.Join(elems, setSep)
	}
	return ""
}

// NormalizeText tokeniza o texto bruto de um registro ("4 → 1 → 5", "1 - 4") e normaliza.
func (r Rule) NormalizeText(s string) string {
	return r.Normalize(SplitCombination(s))
}

// SplitCombination quebra um texto de combinação nos números de cavalo.
func SplitCombination(s string) []string {
	return strings.FieldsFunc(s, func(c rune) bool {
		switch c {
		case '-', '→', '>', ',', '＞', '－', ' ', '\t', '\n', '\r', '　':
			return true
		}
		return false
	})
}

func trimZeros(s string) string {
	s = strings.TrimSpace(s)
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

// lessNumeric ordena numericamente quando possível ("2" < "10").
func lessNumeric(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
