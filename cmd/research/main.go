// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command research is the CLI for the persona research orchestrator. It
// talks to the orchestrator's HTTP API and prints the text blocks the
// service returns.
package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration loaded from config.yaml.
type Config struct {
	// OrchestratorURL is the base URL of the orchestrator service.
	OrchestratorURL string `yaml:"orchestrator_url"`

	// AuthToken is sent as a bearer token when set.
	AuthToken string `yaml:"auth_token"`
}

var config = Config{
	OrchestratorURL: "http://localhost:12310",
}

var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "Multi-persona research orchestration CLI",
	Long: `research drives the persona orchestrator service.

Workflow:
  research recommend "topic"          # pick personas for a topic
  research setup "topic" key1,key2    # create notebooks and a session
  research query <session-id> "q"     # fan a question out to the personas
  research synthesize <session-id>    # merge the answers into a report
  research sessions                   # list active sessions`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configPath := "config.yaml"
		yamlFile, err := os.ReadFile(configPath)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			log.Fatalf("Error reading config.yaml: %v", err)
		}
		if err := yaml.Unmarshal(yamlFile, &config); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}
}
