package model

// ChartDataPoint is one point of an output series. Only the fields relevant
// to the point's series are populated; the rest stay zero.
type ChartDataPoint struct {
	Timestamp       uint64  `json:"timestamp"`
	DateLabel       string  `json:"date_label"`
	TotalDeposits   float64 `json:"total_deposits"`
	TotalBorrows    float64 `json:"total_borrows"`
	TotalCollateral float64 `json:"total_collateral"`
	SupplyAPY       float64 `json:"supply_apy"`
	BorrowRate      float64 `json:"borrow_rate"`
}
