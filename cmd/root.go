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
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robhaswell/tclremote/code"
	"github.com/robhaswell/tclremote/config"
	"github.com/robhaswell/tclremote/logging"
)

var (
	cfgFile  string
	logLevel string

	// Populated by loadConfig before any subcommand runs.
	cfg   config.Config
	table code.Table
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tclremote",
	Short: "Send TCL remote-control commands through a serial IR bridge",
	Long: `This application encodes a TCL remote-control command and writes it once to
the serial port of an IR bridge, which replays it as infrared pulses.

Commands can be given by name or as a raw 26 character code:

tclremote send power
tclremote send B111100101010000011010101E

Serial settings default to COM5 at 115200 baud, 8 data bits, no parity and
2 stop bits. They can be changed in $HOME/.tclremote.toml, through
TCLREMOTE_* environment variables or with flags.
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("tclremote failed")
		os.Exit(1)
	}
}

func init() {
	logging.Init(os.Stderr, zerolog.InfoLevel, false)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tclremote.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error or off")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&c); err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	logging.Init(cmd.ErrOrStderr(), level, c.Log.NoColor)

	t := code.Builtin()
	if err := t.Merge(c.Codes); err != nil {
		return err
	}
	cfg, table = c, t
	return nil
}
