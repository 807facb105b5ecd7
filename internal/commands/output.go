package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"networth/internal/core"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
	}
}

type itemRecord struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Status string `json:"status" yaml:"status"`
	Amount string `json:"amount" yaml:"amount"`
}

type totalsRecord struct {
	TotalAssets      string `json:"total_assets" yaml:"total_assets"`
	TotalLiabilities string `json:"total_liabilities" yaml:"total_liabilities"`
	NetWorth         string `json:"net_worth" yaml:"net_worth"`
}

type shareRecord struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Amount string `json:"amount" yaml:"amount"`
}

func newItemRecord(li core.LineItem) itemRecord {
	return itemRecord{ID: li.ID, Name: li.Name, Type: li.Type, Status: li.Status.String(), Amount: li.Amount}
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, format string, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}
