package models

import "time"

// Channel is the fulfillment channel a row is filed under.
type Channel string

const (
	ChannelFBB   Channel = "FBB"   // shipment fulfilled (FBB/FBP/NOON)
	ChannelFBN   Channel = "FBN"   // network fulfilled (FBN or Rocket marketplace)
	ChannelOther Channel = "OTHER" // noon instant orders
)

// Derived columns added to every row during cleaning and aggregation.
const (
	ColCleanType       = "clean_type"
	ColMarketplaceNorm = "marketplace_norm"
	ColCleanSKU        = "clean_sku"
	ColSalesValue      = "sales_value"
	ColTotalPayment    = "total_payment"

	ColChannel        = "channel"
	ColCommissionRate = "commission_rate_pct"
	ColTrialPrice     = "trial_sale_price"
	ColFinalNet       = "final_net"
	ColTrialNet       = "trial_net"
)

// DerivedColumns is the fixed tail of every aggregated table, in output order.
var DerivedColumns = []string{ColChannel, ColCommissionRate, ColTrialPrice, ColFinalNet, ColTrialNet}

// CommissionReport is the full result of one file load: the three channel
// tables plus load metadata. A fresh report is built per load; the only
// mutation afterwards is the trial-price recompute on individual rows.
type CommissionReport struct {
	LoadID        string            `json:"load_id"`
	SourceFile    string            `json:"source_file"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Schema        map[string]string `json:"schema"`
	TotalRows     int               `json:"total_rows"`
	UnmatchedRows int               `json:"unmatched_rows"`
	FBB           *Table            `json:"fbb"`
	FBN           *Table            `json:"fbn"`
	Other         *Table            `json:"other"`
}

// BatchTotals is the result of a batch AWB/order lookup across the three
// channel tables.
type BatchTotals struct {
	RecordCount      int     `json:"record_count"`
	SKUOccurrences   int     `json:"sku_occurrences"`
	TotalReferralFee float64 `json:"total_referral_fee"`
	TotalDeliveryFee float64 `json:"total_delivery_fee"`
	TotalNet         float64 `json:"total_net"`
}
