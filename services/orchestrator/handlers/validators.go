// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianResearch/services/orchestrator/datatypes"
)

// RegisterValidators installs the custom binding rules used by the
// request types: "strategy" and "synthesis_type". Call once at startup
// before serving requests.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("strategy", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case datatypes.StrategyIndependent, datatypes.StrategyCascading, datatypes.StrategyRedBlue:
			return true
		default:
			return false
		}
	})

	v.RegisterValidation("synthesis_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case datatypes.SynthesisComprehensive, datatypes.SynthesisDecisionMatrix, datatypes.SynthesisDebateSummary:
			return true
		default:
			return false
		}
	})
}
