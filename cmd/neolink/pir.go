package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/catalog"
	"github.com/neolink-go/neolink/internal/logger"
)

func init() {
	rootCmd.AddCommand(pirCmd)
}

// parseOnOff accepts the same true/on/yes and false/off/no spellings as the
// original tool's own on/off parser.
func parseOnOff(s string) (bool, error) {
	switch s {
	case "true", "on", "yes":
		return true, nil
	case "false", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("could not understand %q, expected true/false, on/off or yes/no", s)
	}
}

var pirCmd = &cobra.Command{
	Use:   "pir <camera> [on|off]",
	Short: "Get or set the camera's PIR motion-detector status.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		_, cam, err := loadCamera(viper.GetString(configParamStr), name)
		if err != nil {
			return err
		}
		conn, err := dial(cam, logger.Logger())
		if err != nil {
			return err
		}
		defer conn.Close()

		if len(args) == 1 {
			cfg, err := catalog.GetPIRState(conn, int(cam.ChannelID))
			if err != nil {
				return wrapConnError(err)
			}
			state := "off"
			if cfg.Enable != 0 {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pir: %s\n", name, state)
			return nil
		}

		on, err := parseOnOff(args[1])
		if err != nil {
			return err
		}
		cfg, err := catalog.GetPIRState(conn, int(cam.ChannelID))
		if err != nil {
			return wrapConnError(err)
		}
		cfg.Enable = 0
		if on {
			cfg.Enable = 1
		}
		if err := catalog.SetPIRState(conn, int(cam.ChannelID), *cfg); err != nil {
			return wrapConnError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s pir set to %s\n", name, args[1])
		return nil
	},
}
