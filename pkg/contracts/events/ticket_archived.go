package events

import "time"

// TicketArchived é publicado no Redis Pub/Sub após o worker arquivar um bilhete novo
type TicketArchived struct {
	TicketID          string    `json:"ticket_id"`
	TotalCombinations int       `json:"total_combinations"`
	TotalCost         int64     `json:"total_cost"`
	ArchivedAt        time.Time `json:"archived_at"`
}
