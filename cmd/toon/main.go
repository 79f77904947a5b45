// toon - TOON codec CLI tool
//
// Usage:
//
//	toon from-json [options] [file]   Convert JSON to TOON
//	toon to-json [options] [file]     Convert TOON to JSON
//	toon from-yaml [options] [file]   Convert YAML to TOON
//	toon stats [file]                 Compare JSON vs TOON wire sizes
//	toon version                      Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/TechupBusiness/toon/toon"
)

const libVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var input io.Reader = os.Stdin

	encOpts := toon.DefaultEncodeOptions()
	decOpts := toon.DefaultDecodeOptions()
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--strict":
			decOpts.Strict = true
		case arg == "--length-marker":
			encOpts.LengthMarker = true
		case strings.HasPrefix(arg, "--indent="):
			n, err := parseIntArg(arg, "--indent=")
			if err != nil {
				fatal("bad --indent value: %v", err)
			}
			encOpts.Indent = n
			decOpts.Indent = n
		case strings.HasPrefix(arg, "--delimiter="):
			d := strings.TrimPrefix(arg, "--delimiter=")
			switch d {
			case ",":
				encOpts.Delimiter = toon.DelimiterComma
			case "tab", "\t":
				encOpts.Delimiter = toon.DelimiterTab
			case "|":
				encOpts.Delimiter = toon.DelimiterPipe
			default:
				fatal("unknown delimiter %q (use , tab |)", d)
			}
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "from-json":
		cmdFromJSON(input, encOpts)
	case "to-json":
		cmdToJSON(input, decOpts)
	case "from-yaml":
		cmdFromYAML(input, encOpts)
	case "stats":
		cmdStats(input, encOpts)
	case "version", "-v", "--version":
		fmt.Printf("toon %s\n", libVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `toon - TOON codec CLI tool

Usage:
  toon from-json [options] [file]   Convert JSON to TOON
  toon to-json [options] [file]     Convert TOON to JSON
  toon from-yaml [options] [file]   Convert YAML to TOON
  toon stats [file]                 Compare JSON vs TOON wire sizes
  toon version                      Print version info

Options:
  --indent=N          Spaces per indentation level, 0-10 (default: 2)
  --delimiter=D       Inline/tabular delimiter: , tab | (default: ,)
  --length-marker     Prefix array counts with # in headers
  --strict            Enforce counts and indentation when decoding

If no file is given, reads from stdin.

Examples:
  echo '{"tags":["foo","bar"]}' | toon from-json
  # Output: tags[2]: foo,bar

  echo '{"items":[{"id":1,"qty":5},{"id":2,"qty":3}]}' | toon from-json
  # Output:
  # items[2]{id,qty}:
  #   1,5
  #   2,3

  toon to-json data.toon > data.json
  toon stats data.json
`)
}

// cmdFromJSON: JSON -> TOON
func cmdFromJSON(r io.Reader, opts toon.EncodeOptions) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}
	fmt.Println(toon.EncodeWithOptions(v, opts))
}

// cmdToJSON: TOON -> JSON
func cmdToJSON(r io.Reader, opts toon.DecodeOptions) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.DecodeWithOptions(string(data), opts)
	if err != nil {
		fatal("%v", err)
	}
	out, err := toon.ToJSON(v)
	if err != nil {
		fatal("emit JSON: %v", err)
	}
	fmt.Println(string(out))
}

// cmdFromYAML: YAML -> TOON
func cmdFromYAML(r io.Reader, opts toon.EncodeOptions) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		fatal("parse YAML: %v", err)
	}
	fmt.Println(toon.EncodeAnyWithOptions(doc, opts))
}

// cmdStats: JSON in, size comparison out
func cmdStats(r io.Reader, opts toon.EncodeOptions) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	v, err := toon.FromJSON(data)
	if err != nil {
		fatal("parse JSON: %v", err)
	}

	minified, err := toon.ToJSON(v)
	if err != nil {
		fatal("emit JSON: %v", err)
	}
	text := toon.EncodeWithOptions(v, opts)

	jsonGz := gzipSize(minified)
	toonGz := gzipSize([]byte(text))

	fmt.Printf("%-12s %10s %10s %10s\n", "format", "bytes", "~tokens", "gzip")
	fmt.Printf("%-12s %10d %10d %10d\n", "json", len(minified), approxTokens(minified), jsonGz)
	fmt.Printf("%-12s %10d %10d %10d\n", "toon", len(text), approxTokens([]byte(text)), toonGz)
	if len(minified) > 0 {
		saved := float64(len(minified)-len(text)) / float64(len(minified)) * 100
		fmt.Printf("\nbytes saved: %.1f%%\n", saved)
	}
}

// approxTokens estimates LLM token count with the ~4 bytes/token
// heuristic used for quick corpus comparisons.
func approxTokens(data []byte) int {
	return (len(data) + 3) / 4
}

func gzipSize(data []byte) int {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		fatal("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		fatal("gzip: %v", err)
	}
	return buf.Len()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "toon: "+format+"\n", args...)
	os.Exit(1)
}

// parseIntArg extracts an integer from a flag like "--indent=4"
func parseIntArg(arg, prefix string) (int, error) {
	val := strings.TrimPrefix(arg, prefix)
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return n, nil
}
