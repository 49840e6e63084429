// Package receipt holds the money arithmetic behind rent receipts.
package receipt

import "github.com/shopspring/decimal"

// Charges are the itemized components of a monthly receipt. The first seven
// add to the amount due, the last three reduce it.
type Charges struct {
	Rent        decimal.Decimal
	Water       decimal.Decimal
	Electricity decimal.Decimal
	PropertyTax decimal.Decimal
	LateFee     decimal.Decimal
	Correction  decimal.Decimal
	LegalFee    decimal.Decimal
	Bonus       decimal.Decimal
	Deduction   decimal.Decimal
	Withholding decimal.Decimal
}

// Total is the amount due rounded to cents, half away from zero.
func Total(c Charges) decimal.Decimal {
	return decimal.Sum(c.Rent, c.Water, c.Electricity, c.PropertyTax, c.LateFee, c.Correction, c.LegalFee).
		Sub(decimal.Sum(c.Bonus, c.Deduction, c.Withholding)).
		Round(2)
}

func (c Charges) fields() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"rent":         c.Rent,
		"water":        c.Water,
		"electricity":  c.Electricity,
		"property_tax": c.PropertyTax,
		"late_fee":     c.LateFee,
		"correction":   c.Correction,
		"legal_fee":    c.LegalFee,
		"bonus":        c.Bonus,
		"deduction":    c.Deduction,
		"withholding":  c.Withholding,
	}
}

// MaxAmount is the exclusive upper bound for every stored money value. It
// fits numeric(12,2) and is the largest amount AmountInWords spells.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// InRange reports whether d, rounded to cents, is below MaxAmount.
func InRange(d decimal.Decimal) bool {
	return d.Round(2).LessThan(MaxAmount)
}

// Validate reports negative or oversized components by JSON field name, and
// a total outside the storable range under "total".
func (c Charges) Validate() map[string]string {
	errs := make(map[string]string)
	for name, v := range c.fields() {
		switch {
		case v.IsNegative():
			errs[name] = "Must not be negative"
		case !InRange(v):
			errs[name] = "Must be less than 1.000.000.000"
		}
	}
	if len(errs) == 0 && !InRange(Total(c).Abs()) {
		errs["total"] = "Total must be less than 1.000.000.000"
	}
	return errs
}

// ChargesPatch is a partial update of Charges. Nil components are kept.
type ChargesPatch struct {
	Rent        *decimal.Decimal
	Water       *decimal.Decimal
	Electricity *decimal.Decimal
	PropertyTax *decimal.Decimal
	LateFee     *decimal.Decimal
	Correction  *decimal.Decimal
	LegalFee    *decimal.Decimal
	Bonus       *decimal.Decimal
	Deduction   *decimal.Decimal
	Withholding *decimal.Decimal
}

func (p ChargesPatch) Empty() bool {
	return p == ChargesPatch{}
}

// Apply returns c with the patched components replaced.
func (p ChargesPatch) Apply(c Charges) Charges {
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Rent, p.Rent)
	set(&c.Water, p.Water)
	set(&c.Electricity, p.Electricity)
	set(&c.PropertyTax, p.PropertyTax)
	set(&c.LateFee, p.LateFee)
	set(&c.Correction, p.Correction)
	set(&c.LegalFee, p.LegalFee)
	set(&c.Bonus, p.Bonus)
	set(&c.Deduction, p.Deduction)
	set(&c.Withholding, p.Withholding)
	return c
}
