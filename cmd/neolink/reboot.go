package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/catalog"
	"github.com/neolink-go/neolink/internal/logger"
)

func init() {
	rootCmd.AddCommand(rebootCmd)
}

var rebootCmd = &cobra.Command{
	Use:   "reboot <camera>",
	Short: "Reboot the camera.",
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

		if err := catalog.Reboot(conn); err != nil {
			return wrapConnError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s rebooting\n", name)
		return nil
	},
}
