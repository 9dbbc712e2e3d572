package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintStoreStatus outputs backend, date range and table sizes of the history store.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"table", "rows"}, func(cw *csv.Writer) error {
				for _, name := range sortedTables(status.TableSizes) {
					if err := cw.Write([]string{name, fmt.Sprint(status.TableSizes[name])}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoreStatusText(w, status, cfg)
		}, "Wrote text")
	}
}

func writeStoreStatusText(w io.Writer, s schema.StoreStatus, cfg *contract.Config) error {
	connected := "no"
	if s.Connected {
		connected = "yes"
	}
	if _, err := fmt.Fprintln(w, heading("🗄️", fmt.Sprintf("Store: %s (connected: %s)", s.Backend, connected), cfg)); err != nil {
		return err
	}
	if !s.OldestDay.IsZero() {
		if _, err := fmt.Fprintf(w, "History: %s to %s\n", schema.DayKey(s.OldestDay), schema.DayKey(s.LatestDay)); err != nil {
			return err
		}
	}
	if s.TableSizeBytes > 0 {
		if _, err := fmt.Fprintf(w, "Size: %d bytes\n", s.TableSizeBytes); err != nil {
			return err
		}
	}
	if len(s.TableSizes) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Table", "Rows"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, name := range sortedTables(s.TableSizes) {
		data = append(data, []string{name, fmt.Sprint(s.TableSizes[name])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func sortedTables(sizes map[string]int64) []string {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
