package processors

import (
	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
)

// CommissionProcessor builds the three aggregated channel tables from a
// classified partition.
type CommissionProcessor interface {
	BuildFBB(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table
	BuildFBN(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table
	BuildOther(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table
}

// LookupProcessor recomputes channel-crossing totals for an arbitrary set of
// shipment/order keys against already aggregated tables.
type LookupProcessor interface {
	Lookup(keys []string, fbb, fbn, other *models.Table, s *schema.ResolvedSchema) models.BatchTotals
}
