package combo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Divider     = "-------"
	ProductName = "PCSO 2D Lotto Generator"

	// formato en-US: 10/14/2026, 03:04:05 PM
	timestampLayout = "01/02/2006, 03:04:05 PM"
)

var ErrNoRecords = errors.New("no records")

// Totals agrega a quantidade de combinações e o custo total
type Totals struct {
	TotalCombinations int   `json:"totalCombinations"`
	TotalCost         int64 `json:"totalCost"`
}

// Report é a forma estruturada do relatório gerado
type Report struct {
	Lines       []string
	Totals      Totals
	GeneratedAt string
	Version     string
	Text        string
}

// FormatLine formata uma linha de bilhete: "01 02 20" ou "01 02 20 R"
func FormatLine(n1, n2 int, amount int64, rambolito bool) string {
	line := fmt.Sprintf("%02d %02d %d", n1, n2, amount)
	if rambolito {
		line += " R"
	}
	return line
}

// Lines retorna todas as linhas de um registro, pares em ordem crescente
func Lines(r Record) []string {
	pairs := ExpandRecord(r).Pairs()
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, FormatLine(p.N1, p.N2, r.Amount, r.IsRambolito))
	}
	return out
}

// ComputeTotals é o ponto de entrada leve para o monitor de custo ao vivo
func ComputeTotals(records []Record) Totals {
	var t Totals
	for _, r := range records {
		n := ExpandRecord(r).Len()
		t.TotalCombinations += n
		t.TotalCost += int64(n) * r.Amount
	}
	return t
}

// Generate expande e formata todos os registros e monta o rodapé.
// generatedAt e versionLabel são injetados pelo chamador; versionLabel vazio omite a linha de versão.
func Generate(records []Record, generatedAt, versionLabel string) (Report, error) {
	if len(records) == 0 {
		return Report{}, ErrNoRecords
	}

	var lines []string
	for _, r := range records {
		lines = append(lines, Lines(r)...)
	}
	totals := ComputeTotals(records)

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(Divider)
	fmt.Fprintf(&b, "\nTotal Combinations: %d", totals.TotalCombinations)
	fmt.Fprintf(&b, "\nTotal Amount: %s", FormatPeso(totals.TotalCost))
	fmt.Fprintf(&b, "\nGenerated: %s", generatedAt)
	if versionLabel != "" {
		fmt.Fprintf(&b, "\n%s %s", ProductName, VersionTag(versionLabel))
	}

	return Report{
		Lines:       lines,
		Totals:      totals,
		GeneratedAt: generatedAt,
		Version:     versionLabel,
		Text:        b.String(),
	}, nil
}

// BuildReport retorna apenas o texto final do relatório
func BuildReport(records []Record, generatedAt, versionLabel string) (string, error) {
	rep, err := Generate(records, generatedAt, versionLabel)
	if err != nil {
		return "", err
	}
	return rep.Text, nil
}

// FormatPeso formata valores em pesos com separador de milhar (₱1,234)
func FormatPeso(n int64) string {
	return message.NewPrinter(language.English).Sprintf("₱%d", n)
}

// FormatTimestamp gera o carimbo "Generated:" no formato en-US
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// VersionTag prefixa "v" no rótulo de versão, sem duplicar
func VersionTag(label string) string {
	if label == "" || strings.HasPrefix(label, "v") {
		return label
	}
	return "v" + label
}

// PreviewTotals calcula os totais após aplicar o clamp do formulário em cada registro
func PreviewTotals(records []Record) Totals {
	clean := make([]Record, len(records))
	for i, r := range records {
		clean[i] = Sanitize(r)
	}
	return ComputeTotals(clean)
}
