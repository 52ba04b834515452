// Package testdata builds synthetic access-log tables for pipeline tests.
package testdata

import (
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Header returns the canonical table header.
func Header() []string {
	return []string{"ip", "timestamp", "endpoint", "status"}
}

// SteadyTraffic generates count requests from addr starting at start,
// spaced gap apart, cycling through endpoints, all with the given status.
func SteadyTraffic(addr string, start time.Time, count int, gap time.Duration, endpoints []string, status int) [][]string {
	rows := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		ts := start.Add(time.Duration(i) * gap)
		rows = append(rows, []string{
			addr,
			ts.UTC().Format(time.RFC3339),
			endpoints[i%len(endpoints)],
			strconv.Itoa(status),
		})
	}
	return rows
}

// RandomTraffic generates perAddr benign-looking requests for each of
// addrs faker-chosen addresses, spread across the hour after start.
// Deterministic for a fixed faker seed.
func RandomTraffic(f *gofakeit.Faker, addrs, perAddr int, start time.Time) [][]string {
	endpoints := []string{"/", "/login", "/api/v1/items", "/api/v1/orders", "/static/app.js"}
	statuses := []int{200, 200, 200, 201, 204, 304, 404}

	var rows [][]string
	for a := 0; a < addrs; a++ {
		addr := f.IPv4Address()
		for i := 0; i < perAddr; i++ {
			ts := start.Add(time.Duration(f.IntRange(0, 3600)) * time.Second)
			rows = append(rows, []string{
				addr,
				ts.UTC().Format(time.RFC3339),
				endpoints[f.IntRange(0, len(endpoints)-1)],
				strconv.Itoa(statuses[f.IntRange(0, len(statuses)-1)]),
			})
		}
	}
	return rows
}
