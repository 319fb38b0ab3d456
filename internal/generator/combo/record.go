package combo

import (
	"errors"
	"fmt"
)

// Limites do jogo 2D (00-31) e do buffer aceito no formulário
const (
	MinNumber = 0
	MaxNumber = 31
	MinBuffer = 0
	MaxBuffer = 2
	MinAmount = 1
)

var ErrInvalidRecord = errors.New("invalid record")

// Record é uma combinação declarada pelo usuário.
// As tags JSON são o contrato de backup/import (num1, num2, amount, buffer, isRambolito).
type Record struct {
	Num1        int   `json:"num1"`
	Num2        int   `json:"num2"`
	Amount      int64 `json:"amount"` // pesos inteiros
	Buffer      int   `json:"buffer"`
	IsRambolito bool  `json:"isRambolito"`
}

// Validate rejeita registros fora das faixas do jogo
func Validate(r Record) error {
	switch {
	case r.Num1 < MinNumber || r.Num1 > MaxNumber:
		return fmt.Errorf("%w: num1 %d out of range %d-%d", ErrInvalidRecord, r.Num1, MinNumber, MaxNumber)
	case r.Num2 < MinNumber || r.Num2 > MaxNumber:
		return fmt.Errorf("%w: num2 %d out of range %d-%d", ErrInvalidRecord, r.Num2, MinNumber, MaxNumber)
	case r.Buffer < MinBuffer || r.Buffer > MaxBuffer:
		return fmt.Errorf("%w: buffer %d out of range %d-%d", ErrInvalidRecord, r.Buffer, MinBuffer, MaxBuffer)
	case r.Amount < MinAmount:
		return fmt.Errorf("%w: amount must be at least %d", ErrInvalidRecord, MinAmount)
	}
	return nil
}

// Sanitize aplica o mesmo clamp dos inputs do formulário (números e buffer).
// O amount não é alterado.
func Sanitize(r Record) Record {
	r.Num1 = clamp(r.Num1, MinNumber, MaxNumber)
	r.Num2 = clamp(r.Num2, MinNumber, MaxNumber)
	r.Buffer = clamp(r.Buffer, MinBuffer, MaxBuffer)
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
