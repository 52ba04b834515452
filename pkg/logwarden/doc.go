// Package logwarden scores access-log batches for behavioral risk per
// source address, with no hand-written detection rules.
//
// Quick start:
//
//	a := logwarden.New(logwarden.WithSeed(42))
//
//	f, _ := os.Open("access.csv")
//	defer f.Close()
//
//	report, err := a.AnalyzeCSV(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range report.Results {
//	    fmt.Println(r.Address, r.RiskScore, r.RiskLevel)
//	}
//
// Each call trains a fresh anomaly model on its own batch: risk is
// relative to the uploaded dataset, not a global baseline, and nothing is
// cached between calls. The Analyzer is safe for concurrent use.
package logwarden
