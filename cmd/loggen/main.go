// Command loggen writes a synthetic access-log CSV: mostly benign traffic
// plus a few hostile addresses, for exercising the analysis pipeline.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

var benignEndpoints = []string{
	"/", "/login", "/home", "/search",
	"/api/v1/items", "/api/v1/orders", "/api/v1/users/me",
	"/static/app.js", "/static/style.css", "/favicon.ico",
}

var probeEndpoints = []string{
	"/admin", "/wp-login.php", "/.env", "/phpmyadmin", "/etc/passwd",
}

func main() {
	out := flag.String("out", "-", "output file, '-' for stdout")
	addrs := flag.Int("addrs", 20, "number of benign addresses")
	perAddr := flag.Int("rows", 50, "requests per benign address")
	attackers := flag.Int("attackers", 2, "number of hostile addresses")
	seed := flag.Int64("seed", 0, "random seed, 0 = time-seeded")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	f := gofakeit.New(uint64(*seed))
	rng := rand.New(rand.NewSource(*seed))

	var w io.Writer = os.Stdout
	if *out != "-" {
		file, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loggen: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		w = file
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Minute)
	if err := write(cw, f, rng, start, *addrs, *perAddr, *attackers); err != nil {
		fmt.Fprintf(os.Stderr, "loggen: %v\n", err)
		os.Exit(1)
	}
}

func write(cw *csv.Writer, f *gofakeit.Faker, rng *rand.Rand, start time.Time, addrs, perAddr, attackers int) error {
	if err := cw.Write([]string{"ip", "timestamp", "endpoint", "status"}); err != nil {
		return err
	}

	for a := 0; a < addrs; a++ {
		addr := f.IPv4Address()
		for i := 0; i < perAddr; i++ {
			ts := start.Add(time.Duration(rng.Intn(3600)) * time.Second)
			status := 200
			switch rng.Intn(20) {
			case 0:
				status = 404
			case 1:
				status = 304
			}
			row := []string{addr, ts.Format(time.RFC3339), benignEndpoints[rng.Intn(len(benignEndpoints))], strconv.Itoa(status)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	// Hostile addresses: slow, failing probes of sensitive endpoints.
	for a := 0; a < attackers; a++ {
		addr := f.IPv4Address()
		ts := start.Add(time.Duration(rng.Intn(600)) * time.Second)
		probes := 3 + rng.Intn(4)
		for i := 0; i < probes; i++ {
			status := 401
			if rng.Intn(2) == 0 {
				status = 403
			}
			row := []string{addr, ts.Format(time.RFC3339), probeEndpoints[rng.Intn(len(probeEndpoints))], strconv.Itoa(status)}
			if err := cw.Write(row); err != nil {
				return err
			}
			ts = ts.Add(time.Duration(120+rng.Intn(300)) * time.Second)
		}
	}
	return nil
}
