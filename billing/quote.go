package billing

// =============================================================================
// PAYMENT QUOTE - Price a multi-month payment before recording it
// =============================================================================

// KasQuoteEntry is one kas month to be priced at a chosen tier. The tier
// is picked per entry because someone catching up on old months may have
// lived at a different level back then.
type KasQuoteEntry struct {
	Month  Month  `json:"month"`
	Status Status `json:"status"`
}

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	Type   TransactionType `json:"type"`
	Month  Month           `json:"month"`
	Amount int64           `json:"amount"`
}

// Quote is the total a member would pay for the selected months. Nothing
// is recorded; the quote only prices.
type Quote struct {
	Items     []QuoteItem `json:"items"`
	TotalKas  int64       `json:"totalKas"`
	TotalWifi int64       `json:"totalWifi"`
	Total     int64       `json:"total"`
}

// BuildQuote prices a batch of kas months by tariff and a batch of WiFi
// months by the member's declared share. A WiFi month without a bill or
// without a declaration by this member prices at 0, mirroring what the
// member would actually be charged.
func BuildQuote(memberID int64, kas []KasQuoteEntry, wifiMonths []Month, bills []WifiBill, usage []WifiUsage) (Quote, error) {
	var q Quote
	for _, e := range kas {
		amount, err := PriceKas(e.Month, e.Status)
		if err != nil {
			return Quote{}, err
		}
		q.Items = append(q.Items, QuoteItem{Type: TxKas, Month: e.Month, Amount: amount})
		q.TotalKas += amount
	}
	for _, month := range wifiMonths {
		amount := WifiShareFor(memberID, month, bills, usage)
		q.Items = append(q.Items, QuoteItem{Type: TxWifi, Month: month, Amount: amount})
		q.TotalWifi += amount
	}
	q.Total = q.TotalKas + q.TotalWifi
	return q, nil
}
