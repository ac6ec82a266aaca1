package processors

import (
	"strings"

	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
	"github.com/username/noonfolio/src/utils"
)

type lookupProcessorImpl struct{}

func NewLookupProcessor() LookupProcessor {
	return &lookupProcessorImpl{}
}

// Lookup recomputes channel-crossing totals for the aggregated rows whose
// channel key is in keys. FBB and FBN match on the shipment id column, OTHER
// on the order id column; comparison is by string value. record_count is the
// number of distinct key values per subset (summed), sku_occurrences the
// non-null SKU cell count over the FBB and FBN subsets only.
func (p *lookupProcessorImpl) Lookup(keys []string, fbb, fbn, other *models.Table, s *schema.ResolvedSchema) models.BatchTotals {
	keySet := make(map[string]bool)
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			keySet[k] = true
		}
	}

	totals := models.BatchTotals{}
	if len(keySet) == 0 {
		return totals
	}

	awbCol := s.Column(schema.RoleAWB)
	orderCol := s.Column(schema.RoleOrder)
	skuCol := s.Column(schema.RoleSKU)
	refCol := s.Column(schema.RoleReferralFee)
	fbnCol := s.Column(schema.RoleOutboundFBN)
	dsCol := s.Column(schema.RoleOutboundDS)

	filter := func(t *models.Table, keyCol string) []models.Row {
		if t == nil {
			return nil
		}
		var matched []models.Row
		for _, row := range t.Rows {
			if keySet[strings.TrimSpace(models.CellString(row[keyCol]))] {
				matched = append(matched, row)
			}
		}
		return matched
	}

	fbbSub := filter(fbb, awbCol)
	fbnSub := filter(fbn, awbCol)
	otherSub := filter(other, orderCol)

	for _, sub := range [][]models.Row{fbbSub, fbnSub, otherSub} {
		for _, row := range sub {
			totals.TotalReferralFee += CoerceFloat(row[refCol])
			totals.TotalDeliveryFee += CoerceFloat(row[fbnCol]) + CoerceFloat(row[dsCol])
			totals.TotalNet += CoerceFloat(row[models.ColFinalNet])
		}
	}

	totals.RecordCount = countDistinct(fbbSub, awbCol) + countDistinct(fbnSub, awbCol) + countDistinct(otherSub, orderCol)

	for _, sub := range [][]models.Row{fbbSub, fbnSub} {
		for _, row := range sub {
			if v, ok := row[skuCol]; ok && v != nil {
				totals.SKUOccurrences++
			}
		}
	}

	totals.TotalReferralFee = utils.RoundFloat(totals.TotalReferralFee, 2)
	totals.TotalDeliveryFee = utils.RoundFloat(totals.TotalDeliveryFee, 2)
	totals.TotalNet = utils.RoundFloat(totals.TotalNet, 2)
	return totals
}

func countDistinct(rows []models.Row, col string) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[models.CellString(row[col])] = true
	}
	return len(seen)
}
