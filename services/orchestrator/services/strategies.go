// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/personas"
	"github.com/AleutianAI/AleutianResearch/services/orchestrator/session"
)

// cascadeExcerptRunes bounds how much of the previous stage's answer is
// embedded into the next stage's prompt.
const cascadeExcerptRunes = 2000

// =============================================================================
// Independent Strategy
// =============================================================================

// runIndependent asks every targeted persona the same unmodified question
// concurrently. Each ask is independent: one persona's failure never
// cancels the others, and the dispatch is a full barrier, returning only
// after every ask has completed or failed.
func (s *QueryService) runIndependent(ctx context.Context, sess *session.Session,
	targets []session.Target, question string, continueConversation bool) ([]PersonaAnswer, string) {

	answers := make([]PersonaAnswer, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t session.Target) {
			defer wg.Done()
			answers[i] = s.askPersona(ctx, "independent", t.Key, t.Notebook, question, continueConversation)
		}(i, t)
	}
	wg.Wait()

	results := make(map[string]string, len(answers))
	for _, a := range answers {
		results[a.Key] = a.Text()
	}
	s.store.ReplaceResults(sess.ID, results)

	var b strings.Builder
	fmt.Fprintf(&b, "=== Independent Analysis: %d Perspective(s) ===\n", len(answers))
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	for _, a := range answers {
		cfg := sess.Persona(a.Key)
		b.WriteString(sectionRule + "\n")
		fmt.Fprintf(&b, "### %s (%s)%s\n", personaName(cfg, a.Key), cfg.Role, teamBadge(cfg.Stance))
		b.WriteString(sectionRule + "\n")
		b.WriteString(a.Text() + "\n\n")
	}
	return answers, b.String()
}

// =============================================================================
// Cascading Strategy
// =============================================================================

// runCascading dispatches targeted personas strictly sequentially, in
// supplied order. Stage 1 receives the question verbatim; each later
// stage receives a prompt embedding a truncated excerpt of the previous
// stage's answer. A failed stage does not halt the cascade: its error
// marker becomes the previous answer fed to the next stage.
func (s *QueryService) runCascading(ctx context.Context, sess *session.Session,
	targets []session.Target, question string, continueConversation bool) ([]PersonaAnswer, string) {

	var b strings.Builder
	fmt.Fprintf(&b, "=== Cascading Deep-Dive: %d Stage(s) ===\n", len(targets))
	fmt.Fprintf(&b, "Original Question: %s\n\n", question)

	answers := make([]PersonaAnswer, 0, len(targets))
	previous := ""
	for stage, t := range targets {
		cfg := sess.Persona(t.Key)
		prompt := question
		if stage > 0 {
			prompt = cascadePrompt(previous, cfg.Role, question)
		}

		a := s.askPersona(ctx, "cascading", t.Key, t.Notebook, prompt, continueConversation)
		if a.Failed() {
			a.Marker = fmt.Sprintf("[Error at stage %d: %v]", stage+1, a.Err)
		}
		answers = append(answers, a)

		b.WriteString(sectionRule + "\n")
		fmt.Fprintf(&b, "### Stage %d: %s (%s)\n", stage+1, personaName(cfg, t.Key), cfg.Role)
		b.WriteString(sectionRule + "\n")
		b.WriteString(a.Text() + "\n\n")

		previous = a.Text()
	}

	results := make(map[string]string, len(answers))
	for _, a := range answers {
		results[a.Key] = a.Text()
	}
	s.store.ReplaceResults(sess.ID, results)

	fmt.Fprintf(&b, "=== Cascading complete: %d stages ===", len(targets))
	return answers, b.String()
}

// cascadePrompt builds the stage n>1 prompt: a truncated excerpt of the
// previous answer plus an instruction to extend it from this persona's
// expert perspective before answering the original question.
func cascadePrompt(previousAnswer, role, question string) string {
	return fmt.Sprintf(
		"Here is the analysis from the previous stage:\n---\n%s\n---\n\n"+
			"From your expert perspective (%s), extend the analysis above, "+
			"point out overlooked aspects or alternative interpretations, "+
			"and answer the following question:\n\n%s",
		truncateRunes(previousAnswer, cascadeExcerptRunes), role, question)
}

// =============================================================================
// Red/Blue Strategy
// =============================================================================

// teamAssignment partitions targets into a critical (red) and supportive
// (blue) team by declared stance. Neutral personas join red when their
// source bias favors counter-evidence or regulatory scrutiny, blue
// otherwise. An empty team is repaired by moving one member across: the
// first red member moves to blue, but the last blue member moves to red.
// The asymmetry is long-standing observed behavior; tests pin it.
func teamAssignment(sess *session.Session, targets []session.Target) (red, blue []session.Target) {
	for _, t := range targets {
		cfg := sess.Persona(t.Key)
		switch cfg.Stance {
		case personas.StanceCritical:
			red = append(red, t)
		case personas.StanceSupportive:
			blue = append(blue, t)
		default:
			if cfg.Bias == personas.BiasCounterEvidence || cfg.Bias == personas.BiasRegulatory {
				red = append(red, t)
			} else {
				blue = append(blue, t)
			}
		}
	}

	if len(blue) == 0 && len(red) > 0 {
		blue = append(blue, red[0])
		red = red[1:]
	} else if len(red) == 0 && len(blue) > 0 {
		red = append(red, blue[len(blue)-1])
		blue = blue[:len(blue)-1]
	}
	return red, blue
}

// runRedBlue splits targeted personas into opposing teams for a
// structured debate. Both teams dispatch concurrently; within a team,
// members dispatch concurrently under the same full-barrier rule as the
// independent strategy. Both teams' answers merge into the session's
// latest results without disturbing untargeted keys.
func (s *QueryService) runRedBlue(ctx context.Context, sess *session.Session,
	targets []session.Target, question string, continueConversation bool) ([]PersonaAnswer, string) {

	red, blue := teamAssignment(sess, targets)

	var (
		wg          sync.WaitGroup
		redAnswers  []PersonaAnswer
		blueAnswers []PersonaAnswer
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		blueAnswers = s.askTeam(ctx, sess, blue, teamPromptBlue(question), continueConversation)
	}()
	go func() {
		defer wg.Done()
		redAnswers = s.askTeam(ctx, sess, red, teamPromptRed(question), continueConversation)
	}()
	wg.Wait()

	results := make(map[string]string, len(redAnswers)+len(blueAnswers))
	for _, a := range blueAnswers {
		results[a.Key] = a.Text()
	}
	for _, a := range redAnswers {
		results[a.Key] = a.Text()
	}
	s.store.MergeResults(sess.ID, results)

	var b strings.Builder
	b.WriteString("=== Red/Blue Team Debate ===\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)

	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "## BLUE TEAM (supportive / opportunity view) — %d member(s)\n", len(blueAnswers))
	b.WriteString(sectionRule + "\n")
	for _, a := range blueAnswers {
		cfg := sess.Persona(a.Key)
		fmt.Fprintf(&b, "\n### [%s]\n", personaName(cfg, a.Key))
		b.WriteString(a.Text() + "\n")
	}

	b.WriteString("\n" + sectionRule + "\n")
	fmt.Fprintf(&b, "## RED TEAM (critical / risk view) — %d member(s)\n", len(redAnswers))
	b.WriteString(sectionRule + "\n")
	for _, a := range redAnswers {
		cfg := sess.Persona(a.Key)
		fmt.Fprintf(&b, "\n### [%s]\n", personaName(cfg, a.Key))
		b.WriteString(a.Text() + "\n")
	}

	b.WriteString("\n" + sectionRule + "\n")
	b.WriteString("## NEXT STEP\n")
	fmt.Fprintf(&b,
		"Synthesize with synthesis_type='debate_summary' on session '%s' to get a structured verdict.",
		sess.ID)

	answers := append(append([]PersonaAnswer{}, blueAnswers...), redAnswers...)
	return answers, b.String()
}

// askTeam fans the team prompt out to every member concurrently and
// waits for all of them.
func (s *QueryService) askTeam(ctx context.Context, sess *session.Session,
	team []session.Target, prompt string, continueConversation bool) []PersonaAnswer {

	answers := make([]PersonaAnswer, len(team))
	var wg sync.WaitGroup
	for i, t := range team {
		wg.Add(1)
		go func(i int, t session.Target) {
			defer wg.Done()
			answers[i] = s.askPersona(ctx, "red_blue", t.Key, t.Notebook, prompt, continueConversation)
		}(i, t)
	}
	wg.Wait()
	return answers
}

// teamPromptBlue frames the question for the supportive team.
func teamPromptBlue(question string) string {
	return teamPrompt("Blue Team (supportive side)", "supportive", question)
}

// teamPromptRed frames the question for the critical team.
func teamPromptRed(question string) string {
	return teamPrompt("Red Team (opposing side)", "critical", question)
}

func teamPrompt(teamName, stance string, question string) string {
	return fmt.Sprintf(
		"You are a member of the %s. Analyze the following topic from a %s standpoint.\n\n"+
			"Topic/Question: %s\n\n"+
			"Build a logical %s argument grounded in concrete evidence from the sources. "+
			"Label each claim with a confidence level (high/medium/low).",
		teamName, stance, question, stance)
}
