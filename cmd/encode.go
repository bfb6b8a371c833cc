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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robhaswell/tclremote/code"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <command|code>...",
	Short: "Print the serial frame for one or more commands",
	Args:  cobra.MinimumNArgs(1),
	RunE:  encodeCommands,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Turn a serial frame back into its code",
	Long: `Decode a 6 byte frame given as hex, for example 5362D5A0F200. Spaces and
colons between bytes are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: decodeFrame,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func encodeCommands(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, arg := range args {
		c, err := code.Resolve(table, arg)
		if err != nil {
			return err
		}
		frame, err := code.Encode(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", arg, frame)
	}
	return nil
}

func decodeFrame(cmd *cobra.Command, args []string) error {
	raw := strings.NewReplacer(" ", "", ":", "").Replace(strings.Join(args, ""))
	frame, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("invalid hex frame: %w", err)
	}
	c, err := code.Decode(frame)
	if err != nil {
		return err
	}
	v, err := c.Payload()
	if err != nil {
		return err
	}
	name, ok := table.Name(c)
	if !ok {
		name = "-"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t0x%06X\t%s\n", c, v, name)
	return nil
}
