package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// GetSimpleText prints a prompt to w and reads the next line from scanner.
// io.EOF is returned when input is exhausted.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(scanner *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" confirm.
func Confirm(scanner *bufio.Scanner, prompt string, w io.Writer) bool {
	answer, err := GetSimpleText(scanner, prompt+" [y/N]", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// parseRow parses a zero-based row argument.
func parseRow(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one row number")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("bad row %q", args[0])
	}
	return row, nil
}

// parseCoordinate parses "<lat> <lon>" in decimal degrees.
func parseCoordinate(args []string) (lat, lon float64, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected <lat> <lon>")
	}
	if lat, err = strconv.ParseFloat(args[0], 64); err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("bad latitude %q", args[0])
	}
	if lon, err = strconv.ParseFloat(args[1], 64); err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("bad longitude %q", args[1])
	}
	return lat, lon, nil
}
