// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package column

import "github.com/goki/ki/kit"

// Statuses are the ways a training run can end
type Statuses int32

//go:generate stringer -type=Statuses

var KiT_Statuses = kit.Enums.AddEnum(StatusesN, kit.NotBitFlag, nil)

func (ev Statuses) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Statuses) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Running has not reached a stopping condition
	Running Statuses = iota

	// Killed stopped because output activity or expected reward left the viable range
	Killed

	// EarlySuccess reached the success threshold by the end of the initial trials
	EarlySuccess

	// Success reached the success threshold after the initial trials
	Success

	// Exhausted presented every trial without reaching a stopping condition
	Exhausted

	// Canceled was stopped by its context
	Canceled

	StatusesN
)
