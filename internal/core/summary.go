package core

import "github.com/shopspring/decimal"

// SnapshotRow is a LineItem with its amount coerced to a number.
type SnapshotRow struct {
	ID     int64
	Name   string
	Type   string
	Status Status
	Amount decimal.Decimal
}

// Snapshot is a materialized, read-only view of every line item.
type Snapshot []SnapshotRow

// Totals is the net-worth summary derived from a Snapshot.
type Totals struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
}

// Share is one slice of the composition breakdown: the raw stored amount of a
// single item, without netting.
type Share struct {
	ID     int64
	Name   string
	Status Status
	Amount decimal.Decimal
}

// ComputeTotals partitions the snapshot by status and sums each side.
func ComputeTotals(s Snapshot) Totals {
	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, row := range s {
		switch row.Status {
		case Asset:
			assets = assets.Add(row.Amount)
		case Liability:
			liabilities = liabilities.Add(row.Amount)
		}
	}
	return Totals{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
	}
}

// ComputeShares returns one share per row, in snapshot order.
func ComputeShares(s Snapshot) []Share {
	shares := make([]Share, 0, len(s))
	for _, row := range s {
		shares = append(shares, Share{
			ID:     row.ID,
			Name:   row.Name,
			Status: row.Status,
			Amount: row.Amount,
		})
	}
	return shares
}

// SumShares returns the total of all share amounts.
func SumShares(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, sh := range shares {
		total = total.Add(sh.Amount)
	}
	return total
}

// ToSnapshotRow coerces a stored item for aggregation. A status or amount that
// cannot be read back is a DataIntegrityError, never a silent zero.
func ToSnapshotRow(li LineItem) (SnapshotRow, error) {
	if !li.Status.Valid() {
		return SnapshotRow{}, &DataIntegrityError{ID: li.ID, Field: "status", Value: string(li.Status), Reason: "is not Asset or Liability"}
	}
	amount, err := ParseAmount(li.Amount)
	if err != nil {
		return SnapshotRow{}, &DataIntegrityError{ID: li.ID, Field: "amount", Value: li.Amount, Reason: "is not a non-negative number"}
	}
	return SnapshotRow{
		ID:     li.ID,
		Name:   li.Name,
		Type:   li.Type,
		Status: li.Status,
		Amount: amount,
	}, nil
}
