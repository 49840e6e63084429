package receipt

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountTooLarge is returned for amounts of a billion reais or more.
var ErrAmountTooLarge = errors.New("amount too large to spell out")

var (
	units    = [...]string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	teens    = [...]string{"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens     = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundreds = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// AmountInWords spells a BRL amount in Portuguese, as printed on receipts:
// 1500 -> "mil e quinhentos reais", 0.01 -> "um centavo".
func AmountInWords(amount decimal.Decimal) (string, error) {
	amount = amount.Round(2)
	if amount.IsNegative() {
		words, err := AmountInWords(amount.Neg())
		if err != nil {
			return "", err
		}
		return "menos " + words, nil
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return "", ErrAmountTooLarge
	}

	whole := amount.Truncate(0)
	reais := whole.IntPart()
	cents := amount.Sub(whole).Mul(decimal.NewFromInt(100)).IntPart()

	if reais == 0 && cents == 0 {
		return "zero reais", nil
	}

	var parts []string
	if reais > 0 {
		parts = append(parts, spellReais(reais))
	}
	if cents > 0 {
		if cents == 1 {
			parts = append(parts, "um centavo")
		} else {
			parts = append(parts, spellGroup(int(cents))+" centavos")
		}
	}
	return strings.Join(parts, " e "), nil
}

func spellReais(n int64) string {
	millions := int(n / 1_000_000)
	thousands := int(n / 1_000 % 1_000)
	rest := int(n % 1_000)

	type group struct {
		value int
		words string
	}
	var groups []group
	if millions > 0 {
		w := spellGroup(millions) + " milhões"
		if millions == 1 {
			w = "um milhão"
		}
		groups = append(groups, group{millions, w})
	}
	if thousands > 0 {
		w := spellGroup(thousands) + " mil"
		if thousands == 1 {
			w = "mil"
		}
		groups = append(groups, group{thousands, w})
	}
	if rest > 0 {
		groups = append(groups, group{rest, spellGroup(rest)})
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			// "mil e quinhentos", "mil duzentos e trinta"
			if i == len(groups)-1 && (g.value < 100 || g.value%100 == 0) {
				b.WriteString(" e ")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(g.words)
	}

	switch {
	case n == 1:
		b.WriteString(" real")
	case millions > 0 && thousands == 0 && rest == 0:
		b.WriteString(" de reais")
	default:
		b.WriteString(" reais")
	}
	return b.String()
}

// spellGroup spells 1..999.
func spellGroup(n int) string {
	if n == 100 {
		return "cem"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	r := n % 100
	switch {
	case r == 0:
	case r < 10:
		parts = append(parts, units[r])
	case r < 20:
		parts = append(parts, teens[r-10])
	default:
		parts = append(parts, tens[r/10])
		if r%10 > 0 {
			parts = append(parts, units[r%10])
		}
	}
	return strings.Join(parts, " e ")
}
