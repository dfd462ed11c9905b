package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/catalog"
	"github.com/neolink-go/neolink/internal/logger"
)

func init() {
	rootCmd.AddCommand(statusLightCmd)
}

var statusLightCmd = &cobra.Command{
	Use:   "status-light <camera> <on|off>",
	Short: "Turn the camera's blue status LED on or off.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		on, err := parseOnOff(args[1])
		if err != nil {
			return err
		}

		_, cam, err := loadCamera(viper.GetString(configParamStr), name)
		if err != nil {
			return err
		}
		conn, err := dial(cam, logger.Logger())
		if err != nil {
			return err
		}
		defer conn.Close()

		state, err := catalog.GetLEDState(conn, int(cam.ChannelID))
		if err != nil {
			return wrapConnError(err)
		}
		state.LightState = "close"
		if on {
			state.LightState = "open"
		}
		if err := catalog.SetLEDState(conn, int(cam.ChannelID), *state); err != nil {
			return wrapConnError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s status light set to %s\n", name, args[1])
		return nil
	},
}
