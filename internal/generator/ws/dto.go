package ws

import "github.com/radieske/lotto-2d-generator/internal/generator/combo"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: preview | ping
type ClientMsg struct {
	Type         string         `json:"type"`
	Combinations []combo.Record `json:"combinations,omitempty"` // requerido em preview
}

// ServerMsg é a resposta enviada ao cliente
// Type: totals | archived | pong | error
type ServerMsg struct {
	Type              string `json:"type"`
	TicketID          string `json:"ticketId,omitempty"` // apenas em archived
	TotalCombinations int    `json:"totalCombinations"`
	TotalCost         int64  `json:"totalCost"`
	TotalCostLabel    string `json:"totalCostLabel,omitempty"`
	Error             string `json:"error,omitempty"`
}
