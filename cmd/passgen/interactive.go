package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edgeflare/passgen/pkg/passgen"
)

// promptRequest asks for each generation option on r, showing the current
// value as the default. Empty or unparsable answers keep the default.
func promptRequest(r io.Reader, w io.Writer, req passgen.Request, count int) (passgen.Request, int) {
	scanner := bufio.NewScanner(r)

	fmt.Fprintln(w, "=== passgen (interactive mode) ===")
	fmt.Fprintln(w)

	req.Length = promptInt(scanner, w, "Password length", req.Length)
	req.Lower = promptBool(scanner, w, "Include lowercase letters?", req.Lower)
	req.Upper = promptBool(scanner, w, "Include uppercase letters?", req.Upper)
	req.Digits = promptBool(scanner, w, "Include digits (0-9)?", req.Digits)
	req.Symbols = promptBool(scanner, w, "Include symbols?", req.Symbols)
	count = promptInt(scanner, w, "How many passwords?", count)

	fmt.Fprintln(w)
	return req, count
}

func promptInt(scanner *bufio.Scanner, w io.Writer, label string, def int) int {
	fmt.Fprintf(w, "%s [%d]: ", label, def)
	if scanner.Scan() {
		if v, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil {
			return v
		}
	}
	return def
}

func promptBool(scanner *bufio.Scanner, w io.Writer, label string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(w, "%s [%s]: ", label, hint)
	if !scanner.Scan() {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
