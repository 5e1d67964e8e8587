package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

func newHealthCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the API is healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newClient().HealthCheck(cmd.Context())
			printResponse(cmd.OutOrStdout(), "Health Check Response", res)
			return resultErr(res.Err)
		},
	}
}

func newInfoCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show API information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newClient().GetAPIInfo(cmd.Context())
			printResponse(cmd.OutOrStdout(), "API Information", res)
			return resultErr(res.Err)
		},
	}
}

func newInquiryCmd(newClient clientFactory) *cobra.Command {
	var req contractx.InquiryRequest

	cmd := &cobra.Command{
		Use:   "inquiry",
		Short: "Submit a customer support inquiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newClient().ProcessInquiry(cmd.Context(), req.Customer, req.Person, req.Inquiry)
			printResponse(cmd.OutOrStdout(), "Support Inquiry Response", res)
			return resultErr(res.Err)
		},
	}

	cmd.Flags().StringVar(&req.Customer, "customer", "", "name of the customer company")
	cmd.Flags().StringVar(&req.Person, "person", "", "name of the person making the inquiry")
	cmd.Flags().StringVar(&req.Inquiry, "inquiry", "", "the customer's question or request")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("person")
	_ = cmd.MarkFlagRequired("inquiry")
	return cmd
}

// Sample inquiries used by the demo and example commands.
var (
	sampleMemoryInquiry = contractx.InquiryRequest{
		Customer: "DeepLearningAI",
		Person:   "Andrew Ng",
		Inquiry: "I need help with setting up a Crew and kicking it off, " +
			"specifically how can I add memory to my crew? " +
			"Can you provide guidance?",
	}
	sampleAgentsInquiry = contractx.InquiryRequest{
		Customer: "TechCorp",
		Person:   "Jane Smith",
		Inquiry: "What are the best practices for creating agents in CrewAI? " +
			"I want to build a customer service bot.",
	}
)

func newDemoCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the client demonstration against the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runDemo(cmd, newClient)
			return nil
		},
	}
}

func runDemo(cmd *cobra.Command, newClient clientFactory) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	c := newClient()

	fmt.Fprintln(out, "Customer Support CrewAI API Client")
	fmt.Fprintln(out, rule)

	fmt.Fprintln(out, "\n1. Checking API health...")
	printResponse(out, "Health Check Response", c.HealthCheck(ctx))

	fmt.Fprintln(out, "2. Getting API information...")
	printResponse(out, "API Information", c.GetAPIInfo(ctx))

	fmt.Fprintln(out, "3. Processing sample customer support inquiry...")
	first := sampleMemoryInquiry
	printResponse(out, "Support Inquiry Response", c.ProcessInquiry(ctx, first.Customer, first.Person, first.Inquiry))

	fmt.Fprintln(out, "4. Processing another sample inquiry...")
	second := sampleAgentsInquiry
	printResponse(out, "Second Support Inquiry Response", c.ProcessInquiry(ctx, second.Customer, second.Person, second.Inquiry))

	fmt.Fprintln(out, "\nClient demonstration complete!")
}

func resultErr(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
