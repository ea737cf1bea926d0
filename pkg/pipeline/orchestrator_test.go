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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilery/go-tilery/pkg/ir"
	"github.com/tilery/go-tilery/pkg/strategy"
)

func matmulPlan() UnitPlan {
	return UnitPlan{
		Unit:   ir.NewUnit("dispatch_0", ir.NewMatmulOp("matmul", 128, 128, 256)),
		Choice: strategy.CPUDoubleTilingExpert,
		Configs: []*strategy.TilingConfig{{
			TileSizes: [][]int64{
				{64, 64, 0},
				{8, 32, 0},
				{0, 0, 16},
			},
		}},
	}
}

func TestLowerUnit_RunsAllStages(t *testing.T) {
	runner := &TraceRunner{}
	orchestrator := NewOrchestrator(strategy.DefaultFeatureFlags(), DefaultBuildOptions(), runner)
	//
	unit, _, err := orchestrator.LowerUnit(matmulPlan())
	require.NoError(t, err)
	assert.Equal(t, "dispatch_0", unit.Name())
	//
	names := stageNames(runner.Applied)
	// Pre-lowering gates run first, then the strategy pipeline, then the
	// conversion tail.
	require.Greater(t, len(names), 3)
	assert.Equal(t, StageVerifyLoweringLegality, names[0])
	assert.Equal(t, StageTypePropagation, names[1])
	assert.Equal(t, StageBufferizeCopyOnly, names[2])
	assert.Equal(t, StageTileAndDistribute, names[3])
	// The tail finishes with the final cleanup pair.
	assert.Equal(t, StageCSE, names[len(names)-1])
	assert.Equal(t, StageCanonicalize, names[len(names)-2])
	assert.Contains(t, names, StageConvertToNative)
}

func TestLowerUnit_RejectionTerminatesBeforeAnyStage(t *testing.T) {
	plan := matmulPlan()
	plan.WorkgroupSize = []int64{8, 8, 1}
	//
	runner := &TraceRunner{}
	orchestrator := NewOrchestrator(strategy.DefaultFeatureFlags(), DefaultBuildOptions(), runner)
	//
	_, _, err := orchestrator.LowerUnit(plan)
	require.Error(t, err)
	//
	rejection := &strategy.RejectionError{}
	assert.ErrorAs(t, err, &rejection)
	assert.Equal(t, "matmul", rejection.Op)
	// No transformation stage ran.
	assert.Empty(t, runner.Applied)
}

func TestLowerUnit_ConfigCountMismatch(t *testing.T) {
	plan := matmulPlan()
	plan.Configs = nil
	//
	orchestrator := NewOrchestrator(strategy.DefaultFeatureFlags(), DefaultBuildOptions(), &TraceRunner{})
	//
	_, _, err := orchestrator.LowerUnit(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lowering configs")
}

func TestLowerUnit_CheckIRGating(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*strategy.FeatureFlags)
		present bool
	}{
		{"default on", func(f *strategy.FeatureFlags) {}, true},
		{"disabled", func(f *strategy.FeatureFlags) { f.CheckIRBeforeConversion = false }, false},
		// Hoisted padding intentionally violates the stack-size heuristics
		// the check enforces, so it suppresses the check.
		{"suppressed by hoisting", func(f *strategy.FeatureFlags) { f.EnableHoistPadding = true }, false},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := strategy.DefaultFeatureFlags()
			tt.mutate(&flags)
			//
			runner := &TraceRunner{}
			orchestrator := NewOrchestrator(flags, DefaultBuildOptions(), runner)
			//
			_, _, err := orchestrator.LowerUnit(matmulPlan())
			require.NoError(t, err)
			//
			if tt.present {
				assert.Contains(t, stageNames(runner.Applied), StageCheckIRBeforeConv)
			} else {
				assert.NotContains(t, stageNames(runner.Applied), StageCheckIRBeforeConv)
			}
		})
	}
}

func TestLowerUnit_VectorizationRemarks(t *testing.T) {
	flags := strategy.DefaultFeatureFlags()
	flags.CheckVectorization = true
	//
	runner := &TraceRunner{}
	orchestrator := NewOrchestrator(flags, DefaultBuildOptions(), runner)
	//
	_, _, err := orchestrator.LowerUnit(matmulPlan())
	require.NoError(t, err)
	assert.Contains(t, stageNames(runner.Applied), StageVectorizationRemarks)
}

func TestLowerUnit_InterpreterDropsSchedule(t *testing.T) {
	plan := UnitPlan{
		Unit:    ir.NewUnit("dispatch_0", ir.NewMatmulOp("matmul", 64, 64, 64)).WithSchedule("schedule.mlir"),
		Choice:  strategy.TransformDialectInterpreter,
		Configs: []*strategy.TilingConfig{{}},
	}
	//
	flags := strategy.DefaultFeatureFlags()
	flags.ScheduleFile = "schedule.mlir"
	//
	runner := &TraceRunner{}
	orchestrator := NewOrchestrator(flags, DefaultBuildOptions(), runner)
	//
	unit, _, err := orchestrator.LowerUnit(plan)
	require.NoError(t, err)
	// The schedule annotation is gone once applied.
	assert.Equal(t, "", unit.Schedule())
}

// failingRunner fails on a designated stage.
type failingRunner struct {
	failOn string
}

func (p *failingRunner) Apply(unit *ir.Unit, stage Stage) (*ir.Unit, []Diagnostic, error) {
	if stage.Name == p.failOn {
		return nil, []Diagnostic{{stage.Name, "boom"}}, errors.New("stage failure")
	}
	//
	return unit, nil, nil
}

func TestLowerUnit_StageFailurePropagates(t *testing.T) {
	orchestrator := NewOrchestrator(strategy.DefaultFeatureFlags(), DefaultBuildOptions(),
		&failingRunner{failOn: StageBufferize})
	//
	_, diags, err := orchestrator.LowerUnit(matmulPlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), StageBufferize)
	// Diagnostics collected before the failure are preserved.
	require.Len(t, diags, 1)
	assert.Equal(t, "boom", diags[0].Message)
}

func TestLinkExecutables_MergesUnits(t *testing.T) {
	runner := &TraceRunner{}
	orchestrator := NewOrchestrator(strategy.DefaultFeatureFlags(), DefaultBuildOptions(), runner)
	//
	var (
		first  = ir.NewUnit("dispatch_0", ir.NewMatmulOp("a", 8, 8, 8))
		second = ir.NewUnit("dispatch_1", ir.NewFillOp("b", []int64{8, 8}))
	)
	//
	program, _, err := orchestrator.LinkExecutables(first, second)
	require.NoError(t, err)
	assert.Len(t, program.Operations(), 2)
	//
	require.Len(t, runner.Applied, 1)
	assert.Equal(t, StageLinkExecutables, runner.Applied[0].Name)
	assert.Equal(t, ScopeProgram, runner.Applied[0].Scope)
}
