package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
	maxBodyBytes    = 1 << 20
)

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return core.Invalidf("invalid JSON body")
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.Invalidf("invalid %s %q", key, v)
	}
	return n, nil
}

// parsePage reads page/pageSize with defaults; size is capped.
func parsePage(r *http.Request) (core.Page, error) {
	number, err := queryInt(r, "page", 1)
	if err != nil {
		return core.Page{}, err
	}
	size, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		return core.Page{}, err
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	p := core.Page{Number: number, Size: size}
	return p, p.Validate()
}

// parseYearMonth reads year/month, defaulting to the current UTC month.
func parseYearMonth(r *http.Request) (int, int, error) {
	now := time.Now().UTC()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// parseTransactionFilter reads the optional list filters. from is inclusive
// and to exclusive, both parsed with the same timestamp rules as writes.
func parseTransactionFilter(r *http.Request) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		inst, err := core.ParseInstant(v)
		if err != nil {
			return f, err
		}
		from := inst.UTC()
		f.From = &from
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		inst, err := core.ParseInstant(v)
		if err != nil {
			return f, err
		}
		to := inst.UTC()
		f.To = &to
	}
	f.CategoryID = strings.TrimSpace(q.Get("categoryId"))
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		typ, err := core.ParseTransactionType(v)
		if err != nil {
			return f, err
		}
		f.Type = &typ
	}
	return f, nil
}
