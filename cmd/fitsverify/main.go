package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"example.com/fitsgate/internal/fits"
	"example.com/fitsgate/internal/report"
	"example.com/fitsgate/internal/verify"
)

var (
	version   = verify.Version
	buildDate = "unknown"
)

func usage() {
	fmt.Printf(`fitsverify %s (built %s) - test if the input file(s) conform to the FITS format.

Usage:  fitsverify [flags] filename ...   or   fitsverify [flags] @filelist.txt

  where 'filename' is a filename template (with optional wildcards), and
        'filelist.txt' is an ASCII text file with a list of
         FITS file names, one per line.

   Optional flags:
          -l  list all header keywords
          -H  test ESO HIERARCH keywords
          -q  quiet; print one-line pass/fail summary per file
          -e  only test for error conditions; don't issue warnings
          -s  only test for severe error conditions
       -json  output results as JSON
  -fix-hints  show actionable fix suggestions for each error/warning
    -explain  show detailed explanations for each error/warning

   fitsverify exits with a status equal to the number of errors + warnings
   (capped at 255).
`, version, buildDate)
}

func main() {
	listHeader := flag.Bool("l", false, "list all header keywords")
	hierarch := flag.Bool("H", false, "test ESO HIERARCH keywords")
	quiet := flag.Bool("q", false, "quiet; one-line pass/fail summary per file")
	errsOnly := flag.Bool("e", false, "only test for error conditions")
	severeOnly := flag.Bool("s", false, "only test for severe error conditions")
	jsonMode := flag.Bool("json", false, "output results as JSON")
	fixHints := flag.Bool("fix-hints", false, "show fix suggestions for each error/warning")
	explain := flag.Bool("explain", false, "show explanations for each error/warning")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return
	}

	files, err := expandArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no input files matched")
		os.Exit(1)
	}

	state := verify.NewState()
	// the standalone tool does not check HEASARC conventions by default
	state.SetOption(verify.OptHEASARC, 0)
	if *listHeader {
		state.SetOption(verify.OptPrintHeader, 1)
	}
	if *hierarch {
		state.SetOption(verify.OptTestHierarch, 1)
	}
	if *errsOnly {
		state.SetOption(verify.OptErrReport, 1)
	}
	if *severeOnly {
		state.SetOption(verify.OptErrReport, 2)
	}
	if *quiet {
		state.SetOption(verify.OptPrintSummary, 0)
	}
	if *fixHints {
		state.SetOption(verify.OptFixHints, 1)
	}
	if *explain {
		state.SetOption(verify.OptExplain, 1)
	}

	if !*quiet && !*jsonMode {
		printBanner(state)
	}

	var rep report.Report
	rep.Version = version
	rep.ReaderVersion = fits.Version

	openFailed := false
	for _, path := range files {
		fr, failed := verifyOne(state, path, *quiet, *jsonMode)
		if *jsonMode {
			rep.Files = append(rep.Files, fr)
		}
		if failed {
			openFailed = true
			break
		}
	}

	totErr, totWarn := state.Totals()
	if *jsonMode {
		rep.TotalErrors = totErr
		rep.TotalWarnings = totWarn
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintln(os.Stderr, "encode json:", err)
			os.Exit(1)
		}
	}

	if openFailed {
		os.Exit(1)
	}
	total := totErr + totWarn
	if total > 255 {
		total = 255
	}
	os.Exit(int(total))
}

func printBanner(state *verify.State) {
	banner := fmt.Sprintf("fitsverify %s (fitsgate reader V%s)", version, fits.Version)
	pad := (60 - len(banner)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Println(" ")
	fmt.Printf("%*s%s\n", pad, "", banner)
	fmt.Printf("%*s%s\n", pad, "", strings.Repeat("-", len(banner)))
	fmt.Println(" ")
	if state.Option(verify.OptErrReport) == 2 {
		fmt.Println("Caution: Only checking for the most severe FITS format errors.")
	}
	if state.Option(verify.OptHEASARC) == 1 {
		fmt.Println("HEASARC conventions are being checked.")
	}
	if state.Option(verify.OptTestHierarch) == 1 {
		fmt.Println("ESO HIERARCH keywords are being checked.")
	}
}

// verifyOne runs one file and reports whether the reader failed to open
// it (which ends the whole run).
func verifyOne(state *verify.State, path string, quiet, jsonMode bool) (report.FileReport, bool) {
	fr := report.FileReport{File: path}

	if jsonMode {
		state.SetOutput(func(d verify.Diagnostic) {
			fr.Messages = append(fr.Messages, report.FromDiagnostic(d))
		})
		defer state.SetOutput(nil)
	}

	var out io.Writer
	if !quiet && !jsonMode {
		out = os.Stdout
	}
	result, err := state.VerifyFile(path, out)
	fr.NumErrors = result.NumErrors
	fr.NumWarnings = result.NumWarnings
	fr.NumHDUs = result.NumHDUs
	fr.Aborted = result.Aborted

	if quiet && !jsonMode {
		if result.NumErrors+result.NumWarnings > 0 {
			if state.Option(verify.OptErrReport) > 0 {
				fmt.Printf("verification FAILED: %-20s, %d errors\n", path, result.NumErrors)
			} else {
				fmt.Printf("verification FAILED: %-20s, %d warnings and %d errors\n",
					path, result.NumWarnings, result.NumErrors)
			}
		} else {
			fmt.Printf("verification OK: %-20s\n", path)
		}
	}
	return fr, err != nil && errors.Is(err, verify.ErrOpenFailed)
}

// expandArgs resolves @listfiles and wildcard templates into the final
// file list.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			listed, err := readFileList(arg[1:])
			if err != nil {
				return nil, err
			}
			files = append(files, listed...)
			continue
		}
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %s: %w", arg, err)
			}
			files = append(files, matches...)
			continue
		}
		files = append(files, arg)
	}
	return files, nil
}

// readFileList reads filenames from a text file, one per line, skipping
// blanks.
func readFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the list file: %s", path)
	}
	defer f.Close()
	var files []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return files, nil
}
