// Command smoke exercises a running listify instance end to end: it fetches
// a set of ASINs, optionally runs an optimization pass on each, and prints a
// latency summary. Useful as a deploy smoke test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL   = flag.String("api-url", "http://localhost:8080", "listify API base URL")
	apiKey   = flag.String("api-key", "", "API key for authenticated requests")
	asins    = flag.String("asins", "B07PXGQC1Q,B0863TXGM3,B09JQMJHXY", "comma-separated ASINs to fetch")
	refresh  = flag.Bool("refresh", false, "force a fresh scrape even when stored")
	optimize = flag.Bool("optimize", false, "run an optimization pass after each fetch")
	output   = flag.String("output", "", "optional JSON report path")
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type productData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

type asinResult struct {
	ASIN           string `json:"asin"`
	FetchMs        int64  `json:"fetch_ms"`
	OptimizeMs     int64  `json:"optimize_ms,omitempty"`
	TitleLength    int    `json:"title_length"`
	BulletCount    int    `json:"bullet_count"`
	HasDescription bool   `json:"has_description"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

type report struct {
	Timestamp string       `json:"timestamp"`
	APIURL    string       `json:"api_url"`
	Results   []asinResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== listify smoke test ===")
	fmt.Printf("API URL: %s\n\n", *apiURL)

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	rep := report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		APIURL:    *apiURL,
	}

	failures := 0
	for _, asin := range strings.Split(*asins, ",") {
		asin = strings.TrimSpace(asin)
		if asin == "" {
			continue
		}
		fmt.Printf("Fetching %s ... ", asin)
		r := fetchASIN(asin)
		if r.Success && *optimize {
			r.OptimizeMs = optimizeASIN(asin, &r)
		}
		if r.Success {
			fmt.Printf("OK  %dms  %d bullets\n", r.FetchMs, r.BulletCount)
		} else {
			fmt.Printf("FAILED: %s\n", r.Error)
			failures++
		}
		rep.Results = append(rep.Results, r)
	}

	fmt.Println()
	printTable(rep.Results)

	if *output != "" {
		if err := writeJSON(*output, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nDetailed results written to %s\n", *output)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func fetchASIN(asin string) asinResult {
	r := asinResult{ASIN: asin}

	url := fmt.Sprintf("%s/api/v1/products/%s", *apiURL, asin)
	if *refresh {
		url += "?refresh=true"
	}

	start := time.Now()
	resp, err := doGet(url)
	r.FetchMs = time.Since(start).Milliseconds()
	if err != nil {
		r.Error = err.Error()
		return r
	}

	var p productData
	if err := json.Unmarshal(resp.Data, &p); err != nil {
		r.Error = fmt.Sprintf("decode product: %v", err)
		return r
	}

	r.Success = true
	r.TitleLength = len(p.Title)
	r.BulletCount = len(p.Bullets)
	r.HasDescription = p.Description != ""
	return r
}

func optimizeASIN(asin string, r *asinResult) int64 {
	start := time.Now()
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/v1/optimize/%s", *apiURL, asin), nil)
	if err != nil {
		r.Error = err.Error()
		r.Success = false
		return 0
	}
	if _, err := doRequest(req); err != nil {
		r.Error = fmt.Sprintf("optimize: %v", err)
		r.Success = false
	}
	return time.Since(start).Milliseconds()
}

func doGet(url string) (*apiResponse, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return doRequest(req)
}

func doRequest(req *http.Request) (*apiResponse, error) {
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("decode response: %v", err)
	}
	if !ar.Success {
		if ar.Error != nil {
			return nil, fmt.Errorf("%s: %s", ar.Error.Code, ar.Error.Message)
		}
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return &ar, nil
}

func printTable(results []asinResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ASIN\tFetch\tOptimize\tTitle Len\tBullets\tDesc\tStatus\n")
	fmt.Fprintf(w, "────\t─────\t────────\t─────────\t───────\t────\t──────\n")

	for _, r := range results {
		status := "OK"
		if !r.Success {
			status = "FAILED"
		}
		optMs := "-"
		if r.OptimizeMs > 0 {
			optMs = fmt.Sprintf("%dms", r.OptimizeMs)
		}
		desc := "no"
		if r.HasDescription {
			desc = "yes"
		}
		fmt.Fprintf(w, "%s\t%dms\t%s\t%d\t%d\t%s\t%s\n",
			r.ASIN, r.FetchMs, optMs, r.TitleLength, r.BulletCount, desc, status)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func writeJSON(path string, rep report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
