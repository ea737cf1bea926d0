// Copyright The Tilery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package pipeline

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tilery/go-tilery/pkg/ir"
	"github.com/tilery/go-tilery/pkg/strategy"
)

// Diagnostic is a message emitted by a stage while transforming a unit.
type Diagnostic struct {
	// Stage which emitted the message.
	Stage string
	// Message text.
	Message string
}

// Runner executes a single stage against a compilation unit, producing the
// transformed unit and any diagnostics.  The engine never inspects a stage's
// internals, only its position in the ordered sequence and its options
// record.
type Runner interface {
	Apply(unit *ir.Unit, stage Stage) (*ir.Unit, []Diagnostic, error)
}

// UnitPlan pairs a compilation unit with its chosen strategy and the
// per-operation lowering configurations to verify against.
type UnitPlan struct {
	// Unit being lowered.
	Unit *ir.Unit
	// Choice of lowering strategy for this unit.
	Choice strategy.Choice
	// WorkgroupSize hardware hint; must be empty for CPU strategies.
	WorkgroupSize []int64
	// Configs holds one lowering configuration per operation in the unit.
	Configs []*strategy.TilingConfig
}

// Orchestrator sequences the lowering of compilation units: legality
// verification, strategy lowering via the pipeline builders, the fixed
// post-lowering conversion tail, and finally program-wide linking.  An
// orchestrator is pure over its inputs; independent units may be lowered
// concurrently provided each plan is exclusively owned by its caller.
type Orchestrator struct {
	flags  strategy.FeatureFlags
	opts   BuildOptions
	runner Runner
}

// NewOrchestrator constructs an orchestrator which executes stages through
// the given runner.
func NewOrchestrator(flags strategy.FeatureFlags, opts BuildOptions, runner Runner) *Orchestrator {
	return &Orchestrator{flags, opts, runner}
}

// LowerUnit runs the complete lowering sequence for one compilation unit.
// A verification rejection terminates the unit immediately and
// deterministically; it is returned as the error, never retried.
func (p *Orchestrator) LowerUnit(plan UnitPlan) (*ir.Unit, []Diagnostic, error) {
	// IR-legality gate: every operation's configuration must be explicitly
	// accepted before any transformation stage runs.
	if err := p.verifyLegality(plan); err != nil {
		return nil, nil, err
	}
	//
	var (
		unit        = plan.Unit
		diagnostics []Diagnostic
	)
	//
	stages := p.unitStages(plan.Choice)
	//
	for _, stage := range stages {
		next, diags, err := p.runner.Apply(unit, stage)
		diagnostics = append(diagnostics, diags...)
		//
		if err != nil {
			return nil, diagnostics, fmt.Errorf("unit %s: stage %s: %w", unit.Name(), stage.Name, err)
		}
		//
		unit = next
	}
	//
	return unit, diagnostics, nil
}

// LinkExecutables links all independently lowered units into a single
// artifact.  This is the program-wide final stage.
func (p *Orchestrator) LinkExecutables(units ...*ir.Unit) (*ir.Unit, []Diagnostic, error) {
	var ops []ir.Operation
	//
	for _, unit := range units {
		ops = append(ops, unit.Operations()...)
	}
	//
	program := ir.NewUnit("program", ops...)
	//
	return p.runner.Apply(program, Stage{ScopeProgram, StageLinkExecutables, nil})
}

// verifyLegality checks every operation's lowering configuration under the
// unit's chosen strategy.
func (p *Orchestrator) verifyLegality(plan UnitPlan) error {
	ops := plan.Unit.Operations()
	//
	if len(plan.Configs) != len(ops) {
		return fmt.Errorf("unit %s: %d lowering configs for %d operations",
			plan.Unit.Name(), len(plan.Configs), len(ops))
	}
	//
	for i, op := range ops {
		if err := strategy.VerifyLoweringConfig(op, plan.Configs[i], plan.Choice, plan.WorkgroupSize); err != nil {
			return err
		}
	}
	//
	log.Debugf("unit %s: %d operations verified under %s", plan.Unit.Name(), len(ops), plan.Choice)
	//
	return nil
}

// unitStages assembles the full ordered stage list for one unit: the
// shared pre-lowering stages, the strategy pipeline, and the fixed
// post-lowering conversion tail.
func (p *Orchestrator) unitStages(choice strategy.Choice) []Stage {
	var stages []Stage
	//
	stages = append(stages,
		Stage{ScopeModule, StageVerifyLoweringLegality, nil},
		Stage{ScopeFunction, StageTypePropagation, nil},
		Stage{ScopeModule, StageBufferizeCopyOnly, nil},
	)
	// Strategy lowering.
	stages = append(stages, Build(choice, p.flags, p.opts)...)
	// Post-lowering conversion tail.
	stages = append(stages, p.conversionTail()...)
	//
	return stages
}

// conversionTail progressively rewrites the remaining structured loops down
// to unstructured control flow and performs final target-independent
// cleanup.
func (p *Orchestrator) conversionTail() []Stage {
	var stages []Stage
	//
	function := func(name string, options any) {
		stages = append(stages, Stage{ScopeFunction, name, options})
	}
	module := func(name string, options any) {
		stages = append(stages, Stage{ScopeModule, name, options})
	}
	//
	function(StageTensorExtToLoops, nil)
	function(StageMemrefCopyToStructured, nil)
	//
	if p.flags.CheckVectorization {
		function(StageVectorizationRemarks, nil)
	}
	//
	function(StageStructuredToLoops, nil)
	function(StageCanonicalize, nil)
	function(StageCSE, nil)
	//
	module(StageConstantBufferize, nil)
	module(StageFoldTensorExtract, nil)
	//
	function(StagePolynomialApprox, nil)
	// Stack allocations are easier to check before control flow is
	// unstructured.  Hoisted padding intentionally allocates big stack
	// buffers, so the check is suppressed when hoisting is enabled.
	if p.flags.CheckIRBeforeConversion && !p.flags.EnableHoistPadding {
		module(StageCheckIRBeforeConv, nil)
	}
	//
	function(StageLowerToCFG, nil)
	function(StageCanonicalize, nil)
	function(StageCSE, nil)
	//
	function(StageExpandArith, nil)
	function(StageExpandMemref, nil)
	module(StageConvertToNative, nil)
	module(StageReconcileCasts, nil)
	// Symbol visibility must mirror the linkage assigned during conversion.
	module(StageSyncSymbolVisibility, nil)
	//
	module(StageCanonicalize, nil)
	module(StageCSE, nil)
	//
	return stages
}
