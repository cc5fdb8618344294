// Command chartcheck posts one birth event to a running instance and prints
// the Big Three. Useful as a smoke check after deployment.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type chartRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	Birthplace string `json:"birthplace"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
}

type chartResponse struct {
	BigThree struct {
		Sun    string `json:"sun"`
		Moon   string `json:"moon"`
		Rising string `json:"rising"`
	} `json:"big_three"`
	Placements []struct {
		Name  string `json:"name"`
		Sign  string `json:"sign"`
		House int    `json:"house,omitempty"`
	} `json:"placements"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "service base URL")
	year := flag.Int("year", 1990, "birth year")
	month := flag.Int("month", 6, "birth month")
	day := flag.Int("day", 15, "birth day")
	hour := flag.Int("hour", 14, "birth hour (0-23)")
	minute := flag.Int("minute", 30, "birth minute")
	place := flag.String("place", "Paris, France", "birthplace")
	email := flag.String("email", "", "contact email (optional; enables notification)")
	name := flag.String("name", "", "contact display name (optional)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	payload, err := json.Marshal(chartRequest{
		Year:       *year,
		Month:      *month,
		Day:        *day,
		Hour:       *hour,
		Minute:     *minute,
		Birthplace: *place,
		Email:      *email,
		Name:       *name,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal request:", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Post(*baseURL+"/v1/chart", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintln(os.Stderr, "request failed:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read response:", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "status %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var out chartResponse
	if err := json.Unmarshal(body, &out); err != nil {
		fmt.Fprintln(os.Stderr, "decode response:", err)
		os.Exit(1)
	}

	fmt.Printf("Sun: %s\nMoon: %s\nRising: %s\n",
		out.BigThree.Sun, out.BigThree.Moon, out.BigThree.Rising)
	fmt.Println()
	for _, p := range out.Placements {
		if p.House > 0 {
			fmt.Printf("%-12s %-12s house %d\n", p.Name, p.Sign, p.House)
			continue
		}
		fmt.Printf("%-12s %s\n", p.Name, p.Sign)
	}
}
