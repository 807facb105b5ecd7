package http

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"networth/internal/core"
	"networth/internal/services"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// sortByName orders items for display. Ties keep id order.
func sortByName(items []core.LineItem) []core.LineItem {
	sorted := make([]core.LineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// statusForError maps the store's error classes onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text shown to the client. Server-side failures are
// reported generically and logged in full.
func publicMessage(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	if errors.Is(err, errInvalidID) {
		return errInvalidID.Error()
	}
	if errors.Is(err, core.ErrDataIntegrity) {
		return "stored data could not be read, see server logs"
	}
	return "internal error"
}

type itemView struct {
	ID        int64
	Name      string
	Type      string
	Status    string
	Amount    string
	Display   string
	Liability bool
}

type shareView struct {
	Name      string
	Display   string
	Percent   string
	Width     int
	Liability bool
}

type summaryView struct {
	Assets      string
	Liabilities string
	NetWorth    string
	Negative    bool
	Shares      []shareView
}

func newItemView(li core.LineItem, currency string) itemView {
	display := li.Amount
	if d, err := core.ParseAmount(li.Amount); err == nil {
		display = core.FormatAmount(d, currency)
	}
	return itemView{
		ID:        li.ID,
		Name:      li.Name,
		Type:      li.Type,
		Status:    li.Status.String(),
		Amount:    li.Amount,
		Display:   display,
		Liability: li.Status == core.Liability,
	}
}

func newItemViews(items []core.LineItem, currency string) []itemView {
	views := make([]itemView, 0, len(items))
	for _, li := range sortByName(items) {
		views = append(views, newItemView(li, currency))
	}
	return views
}

func newSummaryView(sum services.Summary, currency string) summaryView {
	v := summaryView{
		Assets:      core.FormatAmount(sum.Totals.TotalAssets, currency),
		Liabilities: core.FormatAmount(sum.Totals.TotalLiabilities, currency),
		NetWorth:    core.FormatAmount(sum.Totals.NetWorth, currency),
		Negative:    sum.Totals.NetWorth.IsNegative(),
	}

	total := core.SumShares(sum.Shares)
	hundred := decimal.NewFromInt(100)
	for _, sh := range sum.Shares {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = sh.Amount.Mul(hundred).Div(total)
		}
		width := int(pct.Round(0).IntPart())
		// keep tiny but non-zero slices visible
		if width < 2 && sh.Amount.IsPositive() {
			width = 2
		}
		if width > 100 {
			width = 100
		}
		v.Shares = append(v.Shares, shareView{
			Name:      sh.Name,
			Display:   core.FormatAmount(sh.Amount, currency),
			Percent:   pct.StringFixed(1) + "%",
			Width:     width,
			Liability: sh.Status == core.Liability,
		})
	}
	return v
}

type lineItemResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

type totalsResponse struct {
	TotalAssets      string `json:"total_assets"`
	TotalLiabilities string `json:"total_liabilities"`
	NetWorth         string `json:"net_worth"`
	Currency         string `json:"currency"`
}

type shareResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

func newLineItemResponse(li core.LineItem) lineItemResponse {
	return lineItemResponse{
		ID:     li.ID,
		Name:   li.Name,
		Type:   li.Type,
		Status: li.Status.String(),
		Amount: li.Amount,
	}
}

func newTotalsResponse(t core.Totals, currency string) totalsResponse {
	return totalsResponse{
		TotalAssets:      t.TotalAssets.StringFixed(2),
		TotalLiabilities: t.TotalLiabilities.StringFixed(2),
		NetWorth:         t.NetWorth.StringFixed(2),
		Currency:         currency,
	}
}

func newShareResponses(shares []core.Share) []shareResponse {
	out := make([]shareResponse, 0, len(shares))
	for _, sh := range shares {
		out = append(out, shareResponse{
			ID:     sh.ID,
			Name:   sh.Name,
			Status: sh.Status.String(),
			Amount: core.CanonicalAmount(sh.Amount),
		})
	}
	return out
}
