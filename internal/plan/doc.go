// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package plan loads variant plans from HCL files.
//
// A plan declares the simulation inputs to start from and the variants to
// derive from them:
//
//	input "fast" {
//	  kind   = "fast8"
//	  source = "models/NREL5MW.fst"
//	}
//
//	variant "yaw_10" {
//	  input  = "fast"
//	  output = "runs/yaw_10/NREL5MW.fst"
//	  set = {
//	    TMax            = 60
//	    "EDFile.NacYaw" = 10
//	  }
//	}
//
// Plans may be split over several files in a directory. Expressions can read
// command line variables through `var.<name>` and call a small set of
// functions (format, upper, lower, min, max, abs, ceil, floor).
package plan
