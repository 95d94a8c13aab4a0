// f77grep searches fixed-form Fortran 77 source files with comment
// awareness: full-line comments are recognized under the same column
// rules the f2cpp translator applies, so -c filters exactly the lines a
// translation would render as comments.
//
// Usage:
//
//	f77grep [flags] pattern file.f [file2.f ...]
//
// Flags:
//
//	-i          case-insensitive matching
//	-n          show line numbers (default true)
//	-c          exclude full-line comments from search
//	-A num      show num lines after match
//	-B num      show num lines before match
//	-C num      show num lines before and after match
//	-l          only print filenames with matches
//	-v          invert match (show non-matching lines)
//	-s num      start line (inclusive, 1-indexed)
//	-e num      end line (inclusive, 1-indexed)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/soypat/f2cpp"
)

var (
	flagIgnoreCase    = flag.Bool("i", false, "case-insensitive matching")
	flagLineNumbers   = flag.Bool("n", true, "show line numbers")
	flagNoComments    = flag.Bool("c", false, "exclude full-line comments from search")
	flagAfterContext  = flag.Int("A", 0, "show num lines after match")
	flagBeforeContext = flag.Int("B", 0, "show num lines before match")
	flagContext       = flag.Int("C", 0, "show num lines before and after match (overrides -A and -B)")
	flagFilesOnly     = flag.Bool("l", false, "only print filenames with matches")
	flagInvert        = flag.Bool("v", false, "invert match (show non-matching lines)")
	flagStartLine     = flag.Int("s", 0, "start line (inclusive, 1-indexed)")
	flagEndLine       = flag.Int("e", 0, "end line (inclusive, 1-indexed)")
	flagNoSeparators  = flag.Bool("no-sep", false, "suppress -- separators between non-contiguous matches")
)

func main() {
	flag.Parse()
	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: f77grep [flags] pattern file.f [file2.f ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	pattern := flag.Arg(0)
	if *flagIgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pattern: %v\n", err)
		os.Exit(1)
	}

	beforeCtx, afterCtx := *flagBeforeContext, *flagAfterContext
	if *flagContext > 0 {
		beforeCtx, afterCtx = *flagContext, *flagContext
	}

	files := flag.Args()[1:]
	exitCode := 1
	for _, filename := range files {
		matched, err := searchFile(filename, re, beforeCtx, afterCtx, len(files) > 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", filename, err)
			continue
		}
		if matched {
			exitCode = 0
		}
	}
	os.Exit(exitCode)
}

// srcLine is one physical line of a source file.
type srcLine struct {
	num     int
	text    string
	comment bool // full-line comment under fixed-form column rules
}

func readSource(filename string) ([]srcLine, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []srcLine
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		text := sc.Text()
		lines = append(lines, srcLine{
			num:     len(lines) + 1,
			text:    text,
			comment: f2cpp.IsCommentLine(text),
		})
	}
	return lines, sc.Err()
}

func searchFile(filename string, re *regexp.Regexp, beforeCtx, afterCtx int, showFilename bool) (bool, error) {
	lines, err := readSource(filename)
	if err != nil {
		return false, err
	}

	var matches []int
	for i, ln := range lines {
		if *flagStartLine > 0 && ln.num < *flagStartLine {
			continue
		}
		if *flagEndLine > 0 && ln.num > *flagEndLine {
			continue
		}
		if *flagNoComments && ln.comment {
			continue
		}
		found := re.MatchString(ln.text)
		if *flagInvert {
			found = !found
		}
		if found {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return false, nil
	}
	if *flagFilesOnly {
		fmt.Println(filename)
		return true, nil
	}

	// Matches first, then context, so a line that is both prints as a
	// match.
	printSet := make(map[int]bool)
	contextSet := make(map[int]bool)
	for _, m := range matches {
		printSet[m] = true
	}
	for _, m := range matches {
		for j := m - beforeCtx; j <= m+afterCtx; j++ {
			if j < 0 || j >= len(lines) || printSet[j] {
				continue
			}
			printSet[j] = true
			contextSet[j] = true
		}
	}

	lastPrinted := -2
	for i := range lines {
		if !printSet[i] {
			continue
		}
		if lastPrinted >= 0 && i > lastPrinted+1 && !*flagNoSeparators && !commentGap(lines, lastPrinted+1, i) {
			fmt.Println("--")
		}
		lastPrinted = i

		prefix := ""
		if showFilename {
			prefix = filename + ":"
		}
		sep := ":"
		if contextSet[i] {
			sep = "-"
		}
		if *flagLineNumbers {
			fmt.Printf("%s%d%s%s\n", prefix, lines[i].num, sep, lines[i].text)
		} else {
			fmt.Printf("%s%s\n", prefix, lines[i].text)
		}
	}
	return true, nil
}

// commentGap reports whether every line in [from, to) was hidden by -c,
// in which case the gap needs no separator.
func commentGap(lines []srcLine, from, to int) bool {
	if !*flagNoComments {
		return false
	}
	for i := from; i < to; i++ {
		if !lines[i].comment {
			return false
		}
	}
	return true
}
