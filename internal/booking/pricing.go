package booking

// RateCard is a guide's three-tier pricing.
type RateCard struct {
	HalfDay   float64
	FullDay   float64
	ExtraHour float64
}

// Price maps a tour duration to a per-person price. Tours up to four hours
// bill the half-day rate, up to eight hours the full-day rate, and longer
// tours add a per-hour overage on top of the full-day rate.
func Price(durationHours float64, rates RateCard) float64 {
	if durationHours <= 4 {
		return rates.HalfDay
	}
	if durationHours <= 8 {
		return rates.FullDay
	}
	return rates.FullDay + (durationHours-8)*rates.ExtraHour
}

// TotalAmount is the reservation amount: per-person price times head count.
func TotalAmount(durationHours float64, rates RateCard, numberOfPeople int) float64 {
	return Price(durationHours, rates) * float64(numberOfPeople)
}
