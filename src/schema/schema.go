// Package schema maps loosely-named spreadsheet columns onto the canonical
// field roles the commission engine works with. Matching is exact-then-
// substring, case-insensitive, first column wins; roles that cannot be
// matched fall back to a broader keyword scan, a positional column, or a
// synthesized column with a typed default, in that order.
package schema

import (
	"strings"

	"github.com/username/noonfolio/src/models"
)

type Role string

const (
	RoleAWB         Role = "awb"
	RoleOrder       Role = "order"
	RoleMarketplace Role = "marketplace"
	RoleSKU         Role = "sku"
	RoleFulfillment Role = "fulfillment"
	RoleBasePrice   Role = "base_price"
	RoleReferralFee Role = "fee_referral"
	RoleOutboundFBN Role = "fee_outbound_fbn"
	RoleOutboundDS  Role = "fee_directship_outbound"
	RoleOrderDate   Role = "order_date"
	RolePartnerID   Role = "partner_id"
	RoleSalePrice   Role = "sale_price"
	RoleQuantity    Role = "quantity"
)

type fallbackPos int

const (
	fallbackNone fallbackPos = iota
	fallbackFirstColumn
	fallbackLastColumn
)

type roleSpec struct {
	role     Role
	keys     []string    // candidate names, tried in order, each exact-then-substring
	keywords []string    // broader uppercase keyword scan when no candidate matches
	position fallbackPos // last-resort physical column

	// synthesized column when everything above fails; empty name means the
	// role is optional and may stay unresolved
	synthName    string
	synthDefault any
}

// roleSpecs is evaluated top to bottom. Order matters: a column synthesized
// by an earlier role becomes part of the column set later roles (and their
// positional fallbacks) see, which decides which physical column ends up as
// the semantic key in ambiguous files.
var roleSpecs = []roleSpec{
	{role: RoleAWB, keys: []string{"awb_nr"}, keywords: []string{"AWB", "TRACK"}, position: fallbackFirstColumn},
	{role: RoleOrder, keys: []string{"order_nr"}, keywords: []string{"ORDER"}, position: fallbackFirstColumn},
	{role: RoleMarketplace, keys: []string{"marketplace"}, synthName: "marketplace", synthDefault: ""},
	{role: RoleSKU, keys: []string{"sku"}, keywords: []string{"SKU", "ITEM", "PRODUCT"}, position: fallbackLastColumn},
	{role: RoleFulfillment, keys: []string{"fulfillment_mode", "fulfillment"}, synthName: "fulfillment_mode", synthDefault: ""},
	{role: RoleBasePrice, keys: []string{"base_price", "item_price", "selling_price", "price"}, synthName: "base_price", synthDefault: 0.0},
	{role: RoleReferralFee, keys: []string{"fee_referral", "referral_fee", "commission", "fee"}, synthName: "fee_referral", synthDefault: 0.0},
	{role: RoleOutboundFBN, keys: []string{"fee_outbound_fbn", "fbn_outbound_fee", "fulfillment_outbound_fbn"}, synthName: "fee_outbound_fbn", synthDefault: 0.0},
	{role: RoleOutboundDS, keys: []string{"fee_directship_outbound", "fbb_outbound_fee", "directship_outbound"}, synthName: "fee_directship_outbound", synthDefault: 0.0},
	{role: RoleOrderDate, keys: []string{"ordered_date", "order_date", "date"}},
	{role: RolePartnerID, keys: []string{"id_partner", "partner_id"}},
	{role: RoleSalePrice, keys: []string{"sale_price"}},
	{role: RoleQuantity, keys: []string{"quantity"}},
}

// FindColumn returns the first column matching key: a case-insensitive exact
// match wins over a case-insensitive substring match (key contained in the
// column name), both in column order. Empty string means no match.
func FindColumn(columns []string, key string) string {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, c := range columns {
		if strings.ToUpper(strings.TrimSpace(c)) == key {
			return c
		}
	}
	for _, c := range columns {
		if strings.Contains(strings.ToUpper(c), key) {
			return c
		}
	}
	return ""
}

func findByKeywords(columns []string, keywords []string) string {
	for _, c := range columns {
		upper := strings.ToUpper(c)
		for _, kw := range keywords {
			if strings.Contains(upper, kw) {
				return c
			}
		}
	}
	return ""
}

// ResolvedSchema is the one mapping from roles to physical columns for a
// loaded file. It is produced once by Resolve and threaded by reference
// through classification, aggregation, lookup and export.
type ResolvedSchema struct {
	columns     map[Role]string
	synthesized map[string]any
	synthOrder  []string
}

// Resolve maps every role onto a column of the given header. Synthesized
// columns are appended to the working column set as they are created, so
// later roles resolve against them exactly as downstream stages will see
// the table.
func Resolve(columns []string) *ResolvedSchema {
	cols := make([]string, len(columns))
	copy(cols, columns)

	rs := &ResolvedSchema{
		columns:     make(map[Role]string),
		synthesized: make(map[string]any),
	}

	for _, spec := range roleSpecs {
		name := ""
		for _, key := range spec.keys {
			if name = FindColumn(cols, key); name != "" {
				break
			}
		}
		if name == "" && len(spec.keywords) > 0 {
			name = findByKeywords(cols, spec.keywords)
		}
		if name == "" && len(cols) > 0 {
			switch spec.position {
			case fallbackFirstColumn:
				name = cols[0]
			case fallbackLastColumn:
				name = cols[len(cols)-1]
			}
		}
		if name == "" && spec.synthName != "" {
			name = spec.synthName
			rs.synthesized[name] = spec.synthDefault
			rs.synthOrder = append(rs.synthOrder, name)
			cols = append(cols, name)
		}
		if name != "" {
			rs.columns[spec.role] = name
		}
	}
	return rs
}

// Column returns the resolved physical column for a role, or "" when the
// role stayed unresolved (optional roles only).
func (s *ResolvedSchema) Column(role Role) string {
	return s.columns[role]
}

func (s *ResolvedSchema) HasRole(role Role) bool {
	_, ok := s.columns[role]
	return ok
}

// Apply materializes the synthesized columns on the table with their
// defaults, plus the always-present total_payment column. Called exactly
// once per load; from then on the synthesized column is the resolved column.
func (s *ResolvedSchema) Apply(t *models.Table) {
	for _, name := range s.synthOrder {
		t.EnsureColumn(name, s.synthesized[name])
	}
	t.EnsureColumn(models.ColTotalPayment, 0.0)
}

// IdentifierColumns is the set of resolved columns folded by first-seen
// value rather than by sum during aggregation.
func (s *ResolvedSchema) IdentifierColumns() map[string]bool {
	ids := make(map[string]bool)
	for _, role := range []Role{RoleAWB, RoleOrder, RoleSKU, RolePartnerID, RoleOrderDate} {
		if col, ok := s.columns[role]; ok {
			ids[col] = true
		}
	}
	return ids
}

// Summary reports the role -> column mapping for diagnostics and the API.
func (s *ResolvedSchema) Summary() map[string]string {
	out := make(map[string]string, len(s.columns))
	for role, col := range s.columns {
		out[string(role)] = col
	}
	return out
}
