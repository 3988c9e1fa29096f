package falcon

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Fixed replies.
const (
	HelpReply = "🤔 Não entendi. Tente, por exemplo:\n" +
		"• Criar tarefa Revisar contrato\n" +
		"• Adicionar saída 45,50 mercado\n" +
		"• Registrar estudo 30 minutos"

	FailureReply = "❌ Não consegui registrar, tente novamente."
)

// brazil formats numbers with pt-BR grouping and decimal comma.
var brazil = language.BrazilianPortuguese

// FormatBRL renders d as Brazilian currency, e.g. "R$ 3.500,00".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	f := d.Abs().Round(2).InexactFloat64()
	return message.NewPrinter(brazil).Sprintf("%sR$ %v", sign, number.Decimal(f, number.Scale(2)))
}

// FormatNumber renders d with a decimal comma and no trailing zeros.
func FormatNumber(d decimal.Decimal) string {
	digits := 0
	if exp := d.Exponent(); exp < 0 {
		digits = int(-exp)
	}
	return message.NewPrinter(brazil).Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(digits)))
}

func pointsSuffix(points int) string {
	if points <= 0 {
		return ""
	}
	return fmt.Sprintf(" (+%d FP)", points)
}
