package topics

const (
	// Bilhetes
	TicketGenerated = "ticket_generated"

	// DLQs
	TicketGeneratedDLQ = "ticket_generated_dlq"
)

// Canal Redis Pub/Sub com os bilhetes recém-arquivados (worker -> WS do gerador)
const ChannelTicketArchived = "lotto_tickets_archived"
