package extract

// maxGrossYieldPct caps plausible rental yields. French gross yields sit
// around 3-10%; anything above 20% means the "rent" is almost certainly a
// misread of the sale price and the whole rent detection is discarded.
const maxGrossYieldPct = 20

// finalize derives the annual figures and yields and cross-validates the
// record. Annual rent and charges are only ever derived from their monthly
// counterparts, never supplied independently. When the gross yield exceeds
// the plausibility cap, rent and both yields are reset to absent: the
// extraction is treated as failed, not capped. Missing charges and tax
// default to zero inside the net-yield computation only; the record fields
// themselves stay absent.
func finalize(r *Record) {
	if r.MonthlyRent != nil {
		r.AnnualRent = ptr(*r.MonthlyRent * 12)
	}
	if r.MonthlyCharges != nil {
		r.AnnualCharges = ptr(*r.MonthlyCharges * 12)
	}

	if r.Price == nil || *r.Price <= 0 || r.AnnualRent == nil {
		return
	}

	gross := *r.AnnualRent / *r.Price * 100
	if gross > maxGrossYieldPct {
		r.MonthlyRent = nil
		r.AnnualRent = nil
		r.GrossYieldPct = nil
		r.NetYieldPct = nil
		return
	}
	r.GrossYieldPct = ptr(gross)

	var charges, tax float64
	if r.AnnualCharges != nil {
		charges = *r.AnnualCharges
	}
	if r.TaxeFonciereAnnual != nil {
		tax = *r.TaxeFonciereAnnual
	}
	r.NetYieldPct = ptr((*r.AnnualRent - charges - tax) / *r.Price * 100)
}
