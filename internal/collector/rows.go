package collector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ChanSentinel/internal/model"
)

// Row is one record from a data source, keyed by column name.
type Row map[string]string

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports required fields that no column could supply.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required columns %v (available: %s)", e.Missing, strings.Join(e.Available, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// columnAliases lists the accepted names per field, English and Chinese.
var columnAliases = []struct {
	field    string
	required bool
	names    []string
}{
	{"date", true, []string{"dt", "日期", "date", "datetime", "trading_date", "time", "timestamp"}},
	{"open", true, []string{"open", "开盘价", "open_price"}},
	{"close", true, []string{"close", "收盘价", "close_price"}},
	{"high", true, []string{"high", "最高价", "high_price"}},
	{"low", true, []string{"low", "最低价", "low_price"}},
	{"volume", false, []string{"vol", "volume", "成交量"}},
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
	"2006/01/02",
}

// resolveColumns maps each field to the column name present in the rows.
func resolveColumns(rows []Row) (map[string]string, error) {
	present := make(map[string]string)
	for _, r := range rows {
		for k := range r {
			present[strings.ToLower(strings.TrimSpace(k))] = k
		}
	}

	cols := make(map[string]string)
	var missing []string
	for _, a := range columnAliases {
		for _, name := range a.names {
			if key, ok := present[strings.ToLower(name)]; ok {
				cols[a.field] = key
				break
			}
		}
		if _, ok := cols[a.field]; !ok && a.required {
			missing = append(missing, a.field)
		}
	}
	if len(missing) > 0 {
		available := make([]string, 0, len(present))
		for _, k := range present {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, &MissingColumnError{Missing: missing, Available: available}
	}
	return cols, nil
}

// BarsFromRows converts rows into chronologically ordered bars. Rows whose
// time or prices cannot be parsed are skipped; rows with impossible price
// geometry are skipped with a warning.
func BarsFromRows(rows []Row, symbol string) ([]model.Bar, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := resolveColumns(rows)
	if err != nil {
		return nil, err
	}

	type parsed struct {
		t      time.Time
		open   float64
		high   float64
		low    float64
		close  float64
		volume float64
	}
	var recs []parsed
	for _, r := range rows {
		t, err := parseTime(r[cols["date"]])
		if err != nil {
			continue
		}
		var p parsed
		p.t = t
		ok := true
		for _, f := range []struct {
			field string
			dst   *float64
		}{
			{"open", &p.open}, {"high", &p.high}, {"low", &p.low}, {"close", &p.close},
		} {
			v, err := parseNumber(r[cols[f.field]])
			if err != nil {
				ok = false
				break
			}
			*f.dst = v
		}
		if !ok {
			continue
		}
		if col, has := cols["volume"]; has {
			if v, err := parseNumber(r[col]); err == nil {
				p.volume = v
			}
		}
		recs = append(recs, p)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].t.Before(recs[j].t) })

	bars := make([]model.Bar, 0, len(recs))
	for _, p := range recs {
		b, err := model.NewBar(p.t, p.open, p.high, p.low, p.close, p.volume, symbol, len(bars))
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("skipping invalid bar")
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// parseTime accepts the common date layouts and unix seconds or milliseconds.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", s)
	}
	if n > 1e12 {
		return time.UnixMilli(n).UTC(), nil
	}
	return time.Unix(n, 0).UTC(), nil
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}
