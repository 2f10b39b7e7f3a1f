// Command grep is a minimal line-matching front end over the regex
// engine: read lines from standard input, a flat list of files, or a
// recursively walked directory tree, and print every line the pattern
// matches.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/brindlehaze/bregex"
	"github.com/brindlehaze/bregex/internal/clog"
)

const (
	exitMatched    = 0
	exitNoMatch    = 1
	exitUsageError = 1
	exitIOError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

type invocation struct {
	extended  bool
	recursive bool
	pattern   string
	paths     []string
}

func run(args []string, stdin *os.File, stdout *os.File) int {
	log := clog.FromEnv()

	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "grep:", err)
		return exitUsageError
	}
	if !inv.extended {
		fmt.Fprintln(os.Stderr, "grep: only the extended dialect (-E) is supported")
		return exitUsageError
	}
	if inv.recursive && len(inv.paths) == 0 {
		fmt.Fprintln(os.Stderr, "grep: -r requires at least one path")
		return exitUsageError
	}

	re, err := regex.Compile([]byte(inv.pattern), regex.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "grep:", err)
		return exitUsageError
	}
	log.Debug("compile", "pattern %q compiled with %d capture group(s)", inv.pattern, re.GroupCount())

	matched := false
	switch {
	case len(inv.paths) == 0 && !inv.recursive:
		ok, err := scanReader(stdout, stdin, re, "", false)
		if err != nil {
			log.Error("stdin", "%v", err)
			return exitIOError
		}
		matched = ok

	case inv.recursive:
		ok, err := walkPaths(stdout, log, re, inv.paths)
		if err != nil {
			return exitIOError
		}
		matched = ok

	default:
		prefix := len(inv.paths) > 1
		for _, p := range inv.paths {
			f, err := os.Open(p)
			if err != nil {
				log.Error("open", "%v", err)
				return exitIOError
			}
			ok, err := scanReader(stdout, f, re, p, prefix)
			f.Close()
			if err != nil {
				log.Error("read", "%v", err)
				return exitIOError
			}
			matched = matched || ok
		}
	}

	if matched {
		return exitMatched
	}
	return exitNoMatch
}

// parseArgs implements
// `grep [-r | --recursive] [-E | --extended-regexp] <pattern> [<path>...]`,
// including combined short flags such as -rE and -Er.
func parseArgs(args []string) (invocation, error) {
	var inv invocation
	i := 0
	for ; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			i++
			break
		}
		switch a {
		case "-E", "--extended-regexp":
			inv.extended = true
			continue
		case "-r", "--recursive":
			inv.recursive = true
			continue
		}
		if strings.HasPrefix(a, "-") && a != "-" && len(a) > 1 && !strings.HasPrefix(a, "--") {
			if consumeShortFlags(a[1:], &inv) {
				continue
			}
		}
		break
	}
	if i >= len(args) {
		return inv, fmt.Errorf("missing pattern")
	}
	inv.pattern = args[i]
	inv.paths = append([]string(nil), args[i+1:]...)
	return inv, nil
}

// consumeShortFlags recognizes a combined short-flag cluster such as
// "rE" or "Er" and folds it into inv. It reports whether every rune in
// cluster was a recognized flag letter.
func consumeShortFlags(cluster string, inv *invocation) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		switch r {
		case 'E':
			inv.extended = true
		case 'r':
			inv.recursive = true
		default:
			return false
		}
	}
	return true
}

func scanReader(w *os.File, r interface{ Read([]byte) (int, error) }, re *regex.Regex, path string, prefix bool) (bool, error) {
	sc := bufio.NewScanner(r)
	matched := false
	for sc.Scan() {
		line := sc.Bytes()
		if _, ok, err := re.Match(line); err != nil {
			return matched, err
		} else if ok {
			matched = true
			if prefix {
				fmt.Fprintf(w, "%s:%s\n", path, line)
			} else {
				fmt.Fprintf(w, "%s\n", line)
			}
		}
	}
	return matched, sc.Err()
}

// walkPaths implements recursive mode: every path is walked as a
// directory tree and every regular file found is scanned, always
// prefixed with its path — the single uniform rule this spec settles
// on where the source it was distilled from applied the prefix
// inconsistently.
func walkPaths(w *os.File, log *clog.Logger, re *regex.Regex, roots []string) (bool, error) {
	matched := false
	for _, root := range roots {
		err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			full := joinRoot(root, p)
			f, ferr := os.Open(full)
			if ferr != nil {
				log.Warn("walk", "%v", ferr)
				return nil
			}
			defer f.Close()
			ok, serr := scanReader(w, f, re, full, true)
			if serr != nil {
				log.Warn("walk", "%v", serr)
				return nil
			}
			matched = matched || ok
			return nil
		})
		if err != nil {
			log.Error("walk", "%v", err)
			return matched, err
		}
	}
	return matched, nil
}

func joinRoot(root, walked string) string {
	if walked == "." {
		return root
	}
	return root + "/" + walked
}
