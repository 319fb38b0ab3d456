package events

import "time"

// Evento publicado no tópico "ticket_generated" após cada relatório gerado
type TicketGenerated struct {
	TicketID          string        `json:"ticket_id"`
	Combinations      []Combination `json:"combinations"`
	TotalCombinations int           `json:"total_combinations"`
	TotalCost         int64         `json:"total_cost"` // pesos inteiros
	Version           string        `json:"version,omitempty"`
	GeneratedAt       time.Time     `json:"generated_at"`
	Source            string        `json:"source"` // "generator-service"
}

// Combination espelha o registro de entrada (num1, num2, amount, buffer, isRambolito)
type Combination struct {
	Num1        int   `json:"num1"`
	Num2        int   `json:"num2"`
	Amount      int64 `json:"amount"`
	Buffer      int   `json:"buffer"`
	IsRambolito bool  `json:"isRambolito"`
}
