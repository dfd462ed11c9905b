package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/neolink-go/neolink/internal/baichuan/catalog"
	"github.com/neolink-go/neolink/internal/logger"
)

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringP("file-path", "f", "", "path to write the captured still image to (required)")
	_ = imageCmd.MarkFlagRequired("file-path")
}

var imageCmd = &cobra.Command{
	Use:   "image <camera>",
	Short: "Dump a still image from the camera.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		filePath, err := cmd.Flags().GetString("file-path")
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

		data, err := catalog.GetSnapshot(conn, int(cam.ChannelID))
		if err != nil {
			return wrapConnError(err)
		}
		if err := os.WriteFile(filePath, data, 0o644); err != nil {
			return wrapConnError(fmt.Errorf("write %s: %w", filePath, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s snapshot written to %s (%d bytes)\n", name, filePath, len(data))
		return nil
	},
}
