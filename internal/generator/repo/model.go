package repo

import (
	"time"

	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
)

// Ticket é o relatório gerado persistido no Postgres.
type Ticket struct {
	ID                string
	Combinations      []combo.Record
	Output            string
	TotalCombinations int
	TotalCost         int64
	Version           string
	CreatedAt         time.Time
}
