package dto

import "github.com/radieske/lotto-2d-generator/internal/generator/combo"

// GenerateRequest é o payload de POST /v1/tickets e /v1/tickets/preview
type GenerateRequest struct {
	Combinations []combo.Record `json:"combinations"`
}

// ExportRequest leva as combinações atuais e o texto já gerado
type ExportRequest struct {
	Combinations []combo.Record `json:"combinations"`
	Output       string         `json:"output"`
}
