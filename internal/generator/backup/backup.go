package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
)

const (
	markerHeader   = "## PCSO 2D LOTTO GENERATOR - BACKUP FILE ##"
	markerNoEdit   = "## DO NOT EDIT THIS SECTION ##"
	markerMetaOpen = "## METADATA_START ##"
	markerMetaEnd  = "## METADATA_END ##"
	markerOutput   = "## GENERATED OUTPUT ##"
	markerEOF      = "## END OF FILE ##"

	// versão gravada quando o app não sabe a própria versão
	defaultVersion = "1.0"
)

var (
	ErrNoOutput       = errors.New("no generated output to export")
	ErrNoRecords      = errors.New("no combinations to export")
	ErrInvalidFormat  = errors.New("invalid backup file format")
	ErrNoCombinations = errors.New("backup has no combinations data")
)

// Metadata é o bloco JSON entre METADATA_START e METADATA_END
type Metadata struct {
	Version      string         `json:"version"`
	AppVersion   *string        `json:"appVersion"`
	ExportDate   time.Time      `json:"exportDate"`
	AppURL       string         `json:"appUrl"`
	Combinations []combo.Record `json:"combinations"`
}

// NewMetadata monta os metadados de exportação para a versão informada (pode ser vazia)
func NewMetadata(records []combo.Record, appVersion, appURL string, exportedAt time.Time) Metadata {
	m := Metadata{
		Version:      defaultVersion,
		ExportDate:   exportedAt.UTC(),
		AppURL:       appURL,
		Combinations: records,
	}
	if appVersion != "" {
		m.Version = appVersion
		m.AppVersion = &appVersion
	}
	return m
}

// Export escreve o arquivo de backup com metadados e o relatório gerado
func Export(w io.Writer, m Metadata, output string, exportedAt time.Time) error {
	if output == "" {
		return ErrNoOutput
	}
	if len(m.Combinations) == 0 {
		return ErrNoRecords
	}

	meta, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	versionText := "v" + defaultVersion
	if m.AppVersion != nil {
		versionText = combo.VersionTag(*m.AppVersion)
	}

	var b strings.Builder
	b.WriteString(markerHeader + "\n")
	b.WriteString(markerNoEdit + "\n")
	b.WriteString(markerMetaOpen + "\n")
	b.Write(meta)
	b.WriteString("\n" + markerMetaEnd + "\n\n")
	b.WriteString(markerOutput + "\n")
	b.WriteString(output)
	b.WriteString("\n\n" + markerEOF + "\n")
	b.WriteString("Generated by: " + combo.ProductName + "\n")
	b.WriteString("Version: " + versionText + "\n")
	b.WriteString("URL: " + m.AppURL + "\n")
	b.WriteString("Export Date: " + combo.FormatTimestamp(exportedAt) + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Import lê um arquivo de backup e devolve os metadados com as combinações
func Import(r io.Reader) (Metadata, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Metadata{}, fmt.Errorf("read backup: %w", err)
	}
	content := string(raw)

	start := strings.Index(content, markerMetaOpen)
	end := strings.Index(content, markerMetaEnd)
	if start == -1 || end == -1 || end < start {
		return Metadata{}, ErrInvalidFormat
	}

	metaJSON := strings.TrimSpace(content[start+len(markerMetaOpen) : end])

	var m Metadata
	if err := json.Unmarshal([]byte(metaJSON), &m); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	if m.Combinations == nil {
		return Metadata{}, ErrNoCombinations
	}
	return m, nil
}

// IsBackup indica se o conteúdo parece um arquivo de backup (usado pela CLI para escolher o parser)
func IsBackup(content []byte) bool {
	s := string(content)
	return strings.Contains(s, markerMetaOpen) && strings.Contains(s, markerMetaEnd)
}
