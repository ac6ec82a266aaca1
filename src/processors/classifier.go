package processors

import (
	"strings"

	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
)

// Partition holds the three channel buckets produced by classification.
// The filters are evaluated independently over the original row set, so a
// row can appear in more than one bucket, and rows matching no predicate
// appear in none. Both behaviors are load-bearing; see classifier tests.
type Partition struct {
	FBB       []models.Row
	FBN       []models.Row
	Other     []models.Row
	Unmatched int
}

// Annotate computes the normalized fields classification and aggregation
// read: clean_type, marketplace_norm, clean_sku and sales_value. Must run
// once per load, before Classify.
func Annotate(t *models.Table, s *schema.ResolvedSchema) {
	fulfillCol := s.Column(schema.RoleFulfillment)
	marketCol := s.Column(schema.RoleMarketplace)
	awbCol := s.Column(schema.RoleAWB)
	skuCol := s.Column(schema.RoleSKU)
	saleCol := s.Column(schema.RoleSalePrice)
	qtyCol := s.Column(schema.RoleQuantity)

	// First non-empty, non-"NAN" SKU per shipment wins; a single
	// left-to-right pass, later rows never override.
	skuFirst := make(map[string]string)
	for _, row := range t.Rows {
		awb := strings.TrimSpace(models.CellString(row[awbCol]))
		sku := strings.TrimSpace(models.CellString(row[skuCol]))
		if awb == "" || sku == "" || strings.EqualFold(sku, "NAN") {
			continue
		}
		if _, seen := skuFirst[awb]; !seen {
			skuFirst[awb] = sku
		}
	}

	for _, row := range t.Rows {
		row[models.ColCleanType] = strings.ToUpper(strings.TrimSpace(models.CellString(row[fulfillCol])))
		row[models.ColMarketplaceNorm] = strings.ToLower(strings.TrimSpace(models.CellString(row[marketCol])))

		awb := strings.TrimSpace(models.CellString(row[awbCol]))
		row[models.ColCleanSKU] = strings.ToUpper(skuFirst[awb])

		var salesValue float64
		if saleCol != "" && qtyCol != "" {
			salesValue = CoerceFloat(row[saleCol]) * CoerceFloat(row[qtyCol])
		}
		row[models.ColSalesValue] = salesValue
	}

	for _, col := range []string{models.ColCleanType, models.ColMarketplaceNorm, models.ColCleanSKU, models.ColSalesValue} {
		if !t.HasColumn(col) {
			t.Columns = append(t.Columns, col)
		}
	}
}

// Classify partitions the annotated rows into the three channel buckets.
func Classify(t *models.Table) *Partition {
	p := &Partition{}
	for _, row := range t.Rows {
		cleanType, _ := row[models.ColCleanType].(string)
		marketplace, _ := row[models.ColMarketplaceNorm].(string)

		inFBB := cleanType == "FBB" || cleanType == "FBP" || cleanType == "NOON"
		inFBN := cleanType == "FBN" || strings.Contains(marketplace, "rocket")
		inOther := marketplace == "noon instant"

		if inFBB {
			p.FBB = append(p.FBB, row)
		}
		if inFBN {
			p.FBN = append(p.FBN, row)
		}
		if inOther {
			p.Other = append(p.Other, row)
		}
		if !inFBB && !inFBN && !inOther {
			p.Unmatched++
		}
	}
	return p
}
