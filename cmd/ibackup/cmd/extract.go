/*
Copyright © 2023 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/ibackup/internal/commands/extract"
	"github.com/blacktop/ibackup/pkg/backup"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", ".", "Directory to extract files to")
	extractCmd.Flags().StringP("type", "t", "all", fmt.Sprintf("Type of files to extract (%s)", strings.Join(backup.ExtractorNames(), ", ")))
	extractCmd.Flags().Bool("override", false, "Proceed even if the backup format version is untested")
	extractCmd.Flags().BoolP("flat", "f", false, "Do NOT preserve folder structure when extracting")
	extractCmd.Flags().IntP("workers", "w", 4, "Number of concurrent copy workers")
	viper.BindPFlag("extract.output", extractCmd.Flags().Lookup("output"))
	viper.BindPFlag("extract.type", extractCmd.Flags().Lookup("type"))
	viper.BindPFlag("extract.override", extractCmd.Flags().Lookup("override"))
	viper.BindPFlag("extract.flat", extractCmd.Flags().Lookup("flat"))
	viper.BindPFlag("extract.workers", extractCmd.Flags().Lookup("workers"))
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:           "extract <BACKUP>",
	Short:         "Extract files from a backup to a normal directory tree",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}

		rep, err := extract.Extract(&extract.Config{
			Backup:   args[0],
			Output:   viper.GetString("extract.output"),
			Type:     viper.GetString("extract.type"),
			Override: viper.GetBool("extract.override"),
			Flatten:  viper.GetBool("extract.flat"),
			Workers:  viper.GetInt("extract.workers"),
			Progress: true,
		})
		if err != nil {
			return errors.Wrap(err, "failed to extract files from backup")
		}

		log.WithFields(log.Fields{
			"total":   rep.Total,
			"copied":  rep.Copied,
			"missing": rep.Missing,
			"failed":  rep.Failed,
		}).Info("Done")

		return nil
	},
}
