/*
Copyright © 2023 Rob Haswell <rob@haswell.co.uk>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robhaswell/tclremote/code"
	"github.com/robhaswell/tclremote/ir"
)

var pulsesCmd = &cobra.Command{
	Use:   "pulses <command|code>",
	Short: "Show the IR pulse train the bridge emits for a command",
	Long: `Print the timings the bridge produces for a command, in microseconds.
Marks (carrier on) are positive, spaces are negative.`,
	Args: cobra.ExactArgs(1),
	RunE: showPulses,
}

func init() {
	rootCmd.AddCommand(pulsesCmd)
}

func showPulses(cmd *cobra.Command, args []string) error {
	c, err := code.Resolve(table, args[0])
	if err != nil {
		return err
	}
	v, err := c.Payload()
	if err != nil {
		return err
	}
	ps := ir.Pulses(v)

	fields := make([]string, len(ps))
	for i, p := range ps {
		us := p.Duration().Microseconds()
		if !p.Mark {
			us = -us
		}
		fields[i] = fmt.Sprintf("%+d", us)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s 0x%06X carrier %dHz total %v\n", c, v, ir.CarrierHz, ir.Total(ps))
	fmt.Fprintln(out, strings.Join(fields, " "))
	return nil
}
