package combo

import "sort"

// Pair é uma combinação ordenada (n1, n2); comparável, serve de chave de mapa
type Pair struct {
	N1 int
	N2 int
}

// Reversed retorna o par com as posições trocadas
func (p Pair) Reversed() Pair { return Pair{N1: p.N2, N2: p.N1} }

// PairSet é um conjunto de pares sem duplicatas
type PairSet struct {
	m map[Pair]struct{}
}

func newPairSet() *PairSet {
	return &PairSet{m: make(map[Pair]struct{})}
}

func (s *PairSet) Add(p Pair) { s.m[p] = struct{}{} }

func (s *PairSet) Contains(p Pair) bool {
	_, ok := s.m[p]
	return ok
}

func (s *PairSet) Len() int { return len(s.m) }

// Pairs retorna os pares ordenados por N1 e depois N2
func (s *PairSet) Pairs() []Pair {
	out := make([]Pair, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N1 != out[j].N1 {
			return out[i].N1 < out[j].N1
		}
		return out[i].N2 < out[j].N2
	})
	return out
}

func inRange(n int) bool { return n >= MinNumber && n <= MaxNumber }

// Expand gera o conjunto de pares de uma combinação.
//
// Rambolito: cada número varia de -buffer a +buffer de forma independente,
// sem troca de posição.
// Exato: buffer 0 gera só o par original; com buffer >= 1 cada par do
// conjunto base entra também invertido.
func Expand(num1, num2, buffer int, rambolito bool) *PairSet {
	if !rambolito && buffer <= 0 {
		s := newPairSet()
		s.Add(Pair{N1: num1, N2: num2})
		return s
	}

	base := buffered(num1, num2, buffer)
	if rambolito {
		return base
	}

	out := newPairSet()
	for p := range base.m {
		out.Add(p)
		out.Add(p.Reversed())
	}
	return out
}

// ExpandRecord é Expand aplicado aos campos de um Record
func ExpandRecord(r Record) *PairSet {
	return Expand(r.Num1, r.Num2, r.Buffer, r.IsRambolito)
}

// buffered monta o conjunto base: original + variações de num1 + variações de num2.
// Candidatos fora de 0-31 são descartados.
func buffered(num1, num2, buffer int) *PairSet {
	s := newPairSet()
	s.Add(Pair{N1: num1, N2: num2})

	offsets(num1, buffer, func(n int) { s.Add(Pair{N1: n, N2: num2}) })
	offsets(num2, buffer, func(n int) { s.Add(Pair{N1: num1, N2: n}) })
	return s
}

// offsets chama add para cada n+d em 0-31, com d em [-buffer, buffer] e d != 0.
// O laço cobre só a janela alcançável, então termina para qualquer buffer.
func offsets(n, buffer int, add func(int)) {
	const span = MaxNumber - MinNumber
	if buffer > span {
		buffer = span // além disso nenhum candidato cai na faixa
	}
	if buffer <= 0 || n < MinNumber-span || n > MaxNumber+span {
		return
	}

	lo, hi := max(-buffer, MinNumber-n), min(buffer, MaxNumber-n)
	for d := lo; d <= hi; d++ {
		if d != 0 {
			add(n + d)
		}
	}
}
