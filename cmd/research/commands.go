// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	recommendMax      int    // Maximum personas to recommend
	recommendLanguage string // Output language code

	setupURLs      []string // Initial source URLs
	setupNoShared  bool     // Add sources to the first notebook only
	setupNoWeb     bool     // Skip the initial web research run
	setupMode      string   // Web research depth
	setupLanguage  string   // Output language code
	queryStrategy  string   // Dispatch strategy
	queryPersonas  []string // Persona subset
	queryContinue  bool     // Continue previous conversations
	synthesisType  string   // Report type
	synthesisExtra string   // Additional synthesis instructions
	catalogDomain  string   // Catalog domain filter
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var recommendCmd = &cobra.Command{
	Use:   "recommend <topic>",
	Short: "Recommend a balanced persona set for a research topic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResult(callAPI(http.MethodPost, "/v1/personas/recommend", map[string]any{
			"topic":        args[0],
			"max_personas": recommendMax,
			"language":     recommendLanguage,
		}))
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup <topic> <persona-keys>",
	Short: "Create notebooks and a session for a comma-separated persona list",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		shared := !setupNoShared
		web := !setupNoWeb
		printResult(callAPI(http.MethodPost, "/v1/personas/setup", map[string]any{
			"topic":          args[0],
			"persona_keys":   strings.Split(args[1], ","),
			"urls":           setupURLs,
			"shared_sources": &shared,
			"web_research":   &web,
			"research_mode":  setupMode,
			"language":       setupLanguage,
		}))
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <session-id> <question>",
	Short: "Dispatch a question to a session's personas",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		printResult(callAPI(http.MethodPost, "/v1/personas/query", map[string]any{
			"session_id":            args[0],
			"question":              args[1],
			"strategy":              queryStrategy,
			"persona_keys":          queryPersonas,
			"continue_conversation": queryContinue,
		}))
	},
}

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <session-id>",
	Short: "Merge a session's stored answers into a synthesis report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printResult(callAPI(http.MethodPost, "/v1/personas/synthesize", map[string]any{
			"session_id":         args[0],
			"synthesis_type":     synthesisType,
			"custom_instruction": synthesisExtra,
		}))
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List active sessions, or show one session in detail",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "/v1/sessions"
		if len(args) == 1 {
			path += "/" + args[0]
		}
		printResult(callAPI(http.MethodGet, path, nil))
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the pre-defined persona pool",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := "/v1/personas"
		if catalogDomain != "" {
			path += "?domain=" + catalogDomain
		}
		printResult(callAPI(http.MethodGet, path, nil))
	},
}

func printResult(text string, err error) {
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(text)
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	recommendCmd.Flags().IntVar(&recommendMax, "max", 4, "Maximum personas to recommend (1-4)")
	recommendCmd.Flags().StringVar(&recommendLanguage, "language", "", "Response language code (e.g. ko)")

	setupCmd.Flags().StringSliceVar(&setupURLs, "url", nil, "Initial source URL (repeatable)")
	setupCmd.Flags().BoolVar(&setupNoShared, "no-shared", false, "Add sources to the first notebook only")
	setupCmd.Flags().BoolVar(&setupNoWeb, "no-web", false, "Skip the initial web research run")
	setupCmd.Flags().StringVar(&setupMode, "mode", "fast", "Web research depth: fast or deep")
	setupCmd.Flags().StringVar(&setupLanguage, "language", "", "Persona prompt language code")

	queryCmd.Flags().StringVar(&queryStrategy, "strategy", "independent",
		"Dispatch strategy: independent, cascading, or red_blue")
	queryCmd.Flags().StringSliceVar(&queryPersonas, "persona", nil,
		"Restrict to a persona key (repeatable)")
	queryCmd.Flags().BoolVar(&queryContinue, "continue", false,
		"Continue each persona's previous conversation")

	synthesizeCmd.Flags().StringVar(&synthesisType, "type", "comprehensive",
		"Report type: comprehensive, decision_matrix, or debate_summary")
	synthesizeCmd.Flags().StringVar(&synthesisExtra, "instruction", "",
		"Additional synthesis instructions")

	catalogCmd.Flags().StringVar(&catalogDomain, "domain", "", "Filter by domain tag")

	rootCmd.AddCommand(recommendCmd, setupCmd, queryCmd, synthesizeCmd, sessionsCmd, catalogCmd)
}
