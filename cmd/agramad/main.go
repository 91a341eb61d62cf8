// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Command agramad is the process entry point described only for
// context by §6: it owns CLI parsing and process lifecycle, neither
// of which is part of the core this repository specifies. It enters
// one of three modes — server, embedded-benchmark, or version print —
// and otherwise does nothing the core doesn't already do through
// buildApp.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a top-level command failure to §6's exit codes:
// 1 for an unrecoverable runtime error, 2 for bad arguments. cobra
// itself returns a flag/arg error before any app is built, so we only
// need to distinguish "never got that far" from "ran and failed".
func exitCodeFor(err error) int {
	if _, ok := err.(*argError); ok {
		return 2
	}
	return 1
}

// argError marks a failure that occurred during flag/config parsing,
// before any component was constructed.
type argError struct{ err error }

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }
