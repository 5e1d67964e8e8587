package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

func printResponse(w io.Writer, title string, v any) {
	writeSection(w, title)
	fmt.Fprintln(w, prettyJSON(v))
	fmt.Fprintf(w, "%s\n\n", rule)
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func prettyJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
