// seed_rankings.go — standalone script to parse a scenario CSV and submit it via the ranker API.
//
// The first CSV column is the alternative label. Every remaining header cell
// declares a criterion as name:weight:kind, e.g. "price:0.3:cost".
//
// Usage:
//
//	go run scripts/seed_rankings.go -csv scenarios.csv -api http://localhost:8700 -client seed
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type criterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Kind   string  `json:"kind"`
}

type rankingRequest struct {
	Labels   []string    `json:"labels"`
	Matrix   [][]float64 `json:"matrix"`
	Criteria []criterion `json:"criteria"`
}

func main() {
	csvPath := flag.String("csv", "scenarios.csv", "path to scenario CSV file")
	apiURL := flag.String("api", "http://localhost:8700", "ranker API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "print the parsed request without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open scenario file: %v", err)
	}
	defer f.Close()

	req, err := parseScenario(f)
	if err != nil {
		log.Fatalf("parse %s: %v", *csvPath, err)
	}

	log.Printf("parsed %d alternatives across %d criteria from %s", len(req.Labels), len(req.Criteria), *csvPath)

	if *dryRun {
		for _, c := range req.Criteria {
			fmt.Printf("criterion %s (weight=%.3f, kind=%s)\n", c.Name, c.Weight, c.Kind)
		}
		for i, label := range req.Labels {
			fmt.Printf("[%d] %s: %v\n", i+1, label, req.Matrix[i])
		}
		return
	}

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequest("POST", *apiURL+"/api/v1/rankings", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Client-ID", *clientID)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		log.Fatalf("post ranking: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("post ranking: status %d: %s", resp.StatusCode, respBody)
	}

	fmt.Println(string(respBody))
}

func parseScenario(r io.Reader) (*rankingRequest, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header row and at least one alternative")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least one criterion column")
	}

	req := &rankingRequest{}
	for i, cell := range header[1:] {
		parts := strings.Split(strings.TrimSpace(cell), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("header column %d: want name:weight:kind, got %q", i+2, cell)
		}
		weight, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("header column %d: bad weight %q", i+2, parts[1])
		}
		req.Criteria = append(req.Criteria, criterion{
			Name:   parts[0],
			Weight: weight,
			Kind:   strings.ToLower(parts[2]),
		})
	}

	for rowIdx, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("row %d: want %d columns, got %d", rowIdx+2, len(header), len(record))
		}
		label := strings.TrimSpace(record[0])
		if label == "" {
			return nil, fmt.Errorf("row %d: empty label", rowIdx+2)
		}
		row := make([]float64, 0, len(record)-1)
		for colIdx, cell := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: bad value %q", rowIdx+2, colIdx+2, cell)
			}
			row = append(row, v)
		}
		req.Labels = append(req.Labels, label)
		req.Matrix = append(req.Matrix, row)
	}

	return req, nil
}
