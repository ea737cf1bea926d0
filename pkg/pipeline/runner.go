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
	log "github.com/sirupsen/logrus"

	"github.com/tilery/go-tilery/pkg/ir"
)

// TraceRunner is a runner which records the stages applied to each unit
// without performing any transformation.  It still maintains the unit
// annotations the engine owns, such as dropping an applied schedule.  Useful
// for inspecting pipelines and as the default runner when no transformation
// backend is wired in.
type TraceRunner struct {
	// Applied lists every stage applied, in order, across all units.
	Applied []Stage
}

// Apply records the stage and returns the unit unchanged, except for
// schedule bookkeeping.
func (p *TraceRunner) Apply(unit *ir.Unit, stage Stage) (*ir.Unit, []Diagnostic, error) {
	p.Applied = append(p.Applied, stage)
	//
	log.Debugf("unit %s: applying %s stage %s", unit.Name(), stage.Scope, stage.Name)
	//
	if stage.Name == StageDropSchedule {
		return unit.WithoutSchedule(), nil, nil
	}
	//
	return unit, nil, nil
}
