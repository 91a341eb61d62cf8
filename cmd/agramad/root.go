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

package main

import (
	"github.com/spf13/cobra"

	"github.com/agrama-db/agrama/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agramad",
		Short:         "Agrama temporal knowledge-graph agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &argError{err}
	})

	root.AddCommand(newServeCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig wraps config.Load so flag/config errors are reported to
// the dispatcher's caller as bad-arguments (exit code 2), not an
// internal failure.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, &argError{err}
	}
	return cfg, nil
}
