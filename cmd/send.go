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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robhaswell/tclremote/code"
	"github.com/robhaswell/tclremote/link"
)

var (
	sendPort    string
	sendBaud    int
	sendDriver  string
	sendTimeout time.Duration
	sendDryRun  bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <command|code>",
	Short: "Send one command to the IR bridge",
	Long: `Encode a command and write it once to the IR bridge. Nothing is read back
from the bridge and a failed write is not retried.`,
	Args: cobra.ExactArgs(1),
	RunE: sendCommand,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendPort, "port", "p", "", `serial port, or "auto" for the most recently connected device`)
	sendCmd.Flags().IntVarP(&sendBaud, "baud", "b", 0, "baud rate")
	sendCmd.Flags().StringVar(&sendDriver, "driver", "", "serial driver: bugst or tarm")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 0, "give up if the write has not finished after this long")
	sendCmd.Flags().BoolVarP(&sendDryRun, "dry-run", "n", false, "print the frame instead of opening the port")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	c, err := code.Resolve(table, args[0])
	if err != nil {
		return err
	}
	frame, err := code.Encode(c)
	if err != nil {
		return err
	}
	log.Debug().Str("code", string(c)).Str("frame", frame.String()).Msg("encoded")

	opts, err := sendOptions(cmd)
	if err != nil {
		return err
	}

	if sendDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", opts.PortName, frame)
		return nil
	}

	l, err := link.Open(opts)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Send(cmd.Context(), frame); err != nil {
		return err
	}
	log.Info().Str("port", l.Name()).Str("command", args[0]).Msg("command sent")
	return nil
}

// sendOptions applies the send flags over the loaded config.
func sendOptions(cmd *cobra.Command) (link.Options, error) {
	opts, err := cfg.Serial.Options()
	if err != nil {
		return link.Options{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		opts.PortName = sendPort
	}
	if flags.Changed("baud") {
		opts.BaudRate = sendBaud
	}
	if flags.Changed("driver") {
		opts.Driver = sendDriver
	}
	if flags.Changed("timeout") {
		opts.WriteTimeout = sendTimeout
	}
	return opts, opts.Validate()
}
