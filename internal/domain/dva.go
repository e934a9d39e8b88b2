package domain

// DvaResult is the full-precision outcome of a value averaging simulation.
type DvaResult struct {
	CommissionRate     float64
	Periods            int
	TotalGrossSpent    float64
	TotalGrossReceived float64
	NetInvested        float64
	FinalAssetAmount   float64
	FinalPrice         float64
	FinalValue         float64
	Profit             float64
	ROI                float64 // fraction, 0 when nothing is net invested
}

// DvaView is DvaResult formatted for display.
type DvaView struct {
	CommissionRate     float64 `json:"commission_rate"`
	Periods            int     `json:"periods"`
	TotalGrossSpent    string  `json:"total_gross_spent"`
	TotalGrossReceived string  `json:"total_gross_received"`
	NetInvested        string  `json:"net_invested"`
	FinalAssetAmount   string  `json:"final_asset_amount"`
	FinalPrice         string  `json:"final_price"`
	FinalValue         string  `json:"final_value"`
	Profit             string  `json:"profit"`
	ROI                string  `json:"roi"`
}
