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
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robhaswell/tclremote/code"
	"github.com/robhaswell/tclremote/link"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known commands, including those from the config file",
	Args:  cobra.NoArgs,
	RunE:  listCommands,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the serial ports on this machine",
	Args:  cobra.NoArgs,
	RunE:  listPorts,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(portsCmd)
}

func listCommands(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCODE\tFRAME")
	for _, name := range table.Names() {
		c := table[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, c, code.MustEncode(c))
	}
	return w.Flush()
}

func listPorts(cmd *cobra.Command, args []string) error {
	ports, err := link.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		return errors.New("no serial ports found")
	}
	for _, port := range ports {
		fmt.Fprintln(cmd.OutOrStdout(), port)
	}
	return nil
}
