package dto

import (
	"time"

	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
)

type GenerateResponse struct {
	TicketID          string `json:"ticketId"`
	TotalCombinations int    `json:"totalCombinations"`
	TotalCost         int64  `json:"totalCost"`
	TotalCostLabel    string `json:"totalCostLabel"` // ex: "₱1,500"
	Output            string `json:"output"`
}

type TicketResponse struct {
	TicketID          string         `json:"ticketId"`
	Combinations      []combo.Record `json:"combinations"`
	TotalCombinations int            `json:"totalCombinations"`
	TotalCost         int64          `json:"totalCost"`
	Output            string         `json:"output"`
	Version           string         `json:"version,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// PreviewResponse alimenta o monitor de custo ao vivo
type PreviewResponse struct {
	TotalCombinations int    `json:"totalCombinations"`
	TotalCost         int64  `json:"totalCost"`
	TotalCostLabel    string `json:"totalCostLabel"`
}

type ImportResponse struct {
	Combinations []combo.Record `json:"combinations"`
	AppVersion   string         `json:"appVersion,omitempty"`
	ExportDate   time.Time      `json:"exportDate"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

func NewPreviewResponse(t combo.Totals) PreviewResponse {
	return PreviewResponse{
		TotalCombinations: t.TotalCombinations,
		TotalCost:         t.TotalCost,
		TotalCostLabel:    combo.FormatPeso(t.TotalCost),
	}
}
