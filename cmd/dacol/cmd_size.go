// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/emer/dacolumn/column"
	"github.com/spf13/cobra"
)

func newSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Build the configured column and report its neurons, synapses and memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sms, err := cf.Samples()
			if err != nil {
				return err
			}
			an, err := cf.Anatomy()
			if err != nil {
				return err
			}
			col, err := column.Build(&cf.Column, an, len(sms[0].Pattern), cf.Seed)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), col.Net.SizeReport())
			return nil
		},
	}
}
