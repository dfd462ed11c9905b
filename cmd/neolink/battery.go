package main

import (
	"encoding/xml"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/catalog"
	"github.com/neolink-go/neolink/internal/logger"
)

func init() {
	rootCmd.AddCommand(batteryCmd)
}

var batteryCmd = &cobra.Command{
	Use:   "battery <camera>",
	Short: "Dump the battery status to XML.",
	Args:  cobra.ExactArgs(1),
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

		info, err := catalog.GetBatteryInfo(conn, int(cam.ChannelID))
		if err != nil {
			return wrapConnError(err)
		}
		out, err := xml.MarshalIndent(info, "", "  ")
		if err != nil {
			return wrapConnError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
