// bench - TOON benchmark runner
//
// Compares TOON encoding vs JSON-minified over a manifest-driven corpus:
//   - Bytes on wire (raw and gzipped)
//   - Approximate token counts (byte-based heuristics)
//
// Output: CSV and a stdout summary
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/TechupBusiness/toon/toon"
)

type CaseResult struct {
	Name       string
	JSONBytes  int
	TOONBytes  int
	BytesPct   float64
	JSONTokens int
	TOONTokens int
	TokensPct  float64
	JSONGzip   int
	TOONGzip   int
}

type Manifest struct {
	Version     string `json:"version"`
	Description string `json:"description"`
	Cases       []struct {
		Name string `json:"name"`
		File string `json:"file"`
	} `json:"cases"`
}

func main() {
	testdataDir := findTestdata()
	if testdataDir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find testdata/bench directory")
		os.Exit(1)
	}

	manifestPath := filepath.Join(testdataDir, "manifest.json")
	manifestData, err := os.ReadFile(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read manifest: %v\n", err)
		os.Exit(1)
	}

	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot parse manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "TOON Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "=====================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d cases)\n\n", manifest.Version, len(manifest.Cases))

	var results []CaseResult
	var totalJSONBytes, totalTOONBytes int
	var totalJSONTokens, totalTOONTokens int

	for _, c := range manifest.Cases {
		jsonData, err := os.ReadFile(filepath.Join(testdataDir, c.File))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", c.Name, err)
			continue
		}

		v, err := toon.FromJSON(jsonData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: parse error: %v\n", c.Name, err)
			continue
		}

		text := toon.Encode(v)
		jsonMin, err := toon.ToJSON(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", c.Name, err)
			continue
		}

		jsonBytes := len(jsonMin)
		toonBytes := len(text)
		jsonTokens := estimateTokens(string(jsonMin))
		toonTokens := estimateTokens(text)

		r := CaseResult{
			Name:       c.Name,
			JSONBytes:  jsonBytes,
			TOONBytes:  toonBytes,
			JSONTokens: jsonTokens,
			TOONTokens: toonTokens,
			JSONGzip:   gzipSize(jsonMin),
			TOONGzip:   gzipSize([]byte(text)),
		}
		if jsonBytes > 0 {
			r.BytesPct = float64(jsonBytes-toonBytes) / float64(jsonBytes) * 100
		}
		if jsonTokens > 0 {
			r.TokensPct = float64(jsonTokens-toonTokens) / float64(jsonTokens) * 100
		}
		results = append(results, r)

		totalJSONBytes += jsonBytes
		totalTOONBytes += toonBytes
		totalJSONTokens += jsonTokens
		totalTOONTokens += toonTokens
	}

	csvPath := "bench_results.csv"
	if csvFile, err := os.Create(csvPath); err == nil {
		writeCSV(csvFile, results)
		csvFile.Close()
		fmt.Fprintf(os.Stderr, "CSV written to: %s\n", csvPath)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Cases:        %d\n", len(results))
	fmt.Printf("JSON total:   %d bytes, ~%d tokens\n", totalJSONBytes, totalJSONTokens)
	fmt.Printf("TOON total:   %d bytes, ~%d tokens\n", totalTOONBytes, totalTOONTokens)
	if totalJSONBytes > 0 {
		fmt.Printf("Bytes saved:  %d (%.1f%%)\n", totalJSONBytes-totalTOONBytes,
			float64(totalJSONBytes-totalTOONBytes)/float64(totalJSONBytes)*100)
	}
	if totalJSONTokens > 0 {
		fmt.Printf("Tokens saved: %d (%.1f%%)\n", totalJSONTokens-totalTOONTokens,
			float64(totalJSONTokens-totalTOONTokens)/float64(totalJSONTokens)*100)
	}
}

// findTestdata locates the corpus relative to common invocation dirs.
func findTestdata() string {
	candidates := []string{
		"testdata/bench",
		"cmd/bench/testdata/bench",
		"../../cmd/bench/testdata/bench",
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && st.IsDir() {
			return c
		}
	}
	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,json_bytes,toon_bytes,bytes_pct,json_tokens,toon_tokens,tokens_pct,json_gzip,toon_gzip")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%.1f,%d,%d,%.1f,%d,%d\n",
			r.Name, r.JSONBytes, r.TOONBytes, r.BytesPct,
			r.JSONTokens, r.TOONTokens, r.TokensPct,
			r.JSONGzip, r.TOONGzip)
	}
}

// estimateTokens provides a rough cl100k_base-like approximation:
// punctuation gets its own token, words and numbers chunk at ~4 chars.
func estimateTokens(s string) int {
	tokens := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isPunctuation(c):
			tokens++
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		default:
			runLen := 0
			for i < len(s) && !isPunctuation(s[i]) && s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '\r' {
				runLen++
				i++
			}
			tokens += (runLen + 3) / 4
		}
	}
	return tokens
}

func isPunctuation(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ':', ',', '"', '|', '-', '#':
		return true
	}
	return false
}

func gzipSize(data []byte) int {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return 0
	}
	if err := zw.Close(); err != nil {
		return 0
	}
	return buf.Len()
}
