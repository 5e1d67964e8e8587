package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

// newExampleCmd sends one raw inquiry without the client package, showing
// the bare HTTP exchange.
func newExampleCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Send a single raw inquiry request and print the exchange",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := strings.TrimRight(v.GetString("base-url"), "/")
			hc := &http.Client{Timeout: v.GetDuration("timeout")}
			return runExample(cmd, hc, baseURL)
		},
	}
}

func runExample(cmd *cobra.Command, hc *http.Client, baseURL string) error {
	out := cmd.OutOrStdout()
	url := baseURL + contractx.InquiryPath

	payload, err := json.Marshal(sampleMemoryInquiry)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	fmt.Fprintln(out, "Sending request to Customer Support API...")
	fmt.Fprintf(out, "URL: %s\n", url)
	fmt.Fprintf(out, "Payload: %s\n", prettyJSON(sampleMemoryInquiry))
	fmt.Fprintf(out, "\n%s\n\n", rule)

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			fmt.Fprintln(out, "Connection Error: Could not connect to the API.")
			fmt.Fprintf(out, "Make sure the API server is running on %s\n", baseURL)
			return nil
		}
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(out, "HTTP Error: %d %s for url: %s\n", resp.StatusCode, http.StatusText(resp.StatusCode), url)
		if len(body) > 0 {
			fmt.Fprintf(out, "Error details: %s\n", body)
		}
		return nil
	}

	var result contractx.InquiryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	fmt.Fprintln(out, "Response received successfully!")
	fmt.Fprintln(out, prettyJSON(result))

	if result.Success {
		writeSection(out, "Support Response:")
		text := result.Text()
		if text == "" {
			text = "No response content"
		}
		fmt.Fprintln(out, text)
	}
	return nil
}
