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
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/ibackup/pkg/backup"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("info.json", infoCmd.Flags().Lookup("json"))
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <BACKUP>",
	Short:         "Show a backup's metadata documents",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		color.NoColor = !Color

		b, err := backup.Open(args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		if viper.GetBool("info.json") {
			dat, err := json.Marshal(struct {
				Info     *backup.Info     `json:"info"`
				Manifest *backup.Manifest `json:"manifest"`
				Status   *backup.Status   `json:"status"`
			}{b.Info, b.Manifest, b.Status})
			if err != nil {
				return err
			}
			fmt.Println(string(dat))
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s (#%s, %s) with iOS %s [backup v%s]\n\n",
			bold(b.DeviceName()), b.SerialNumber(), b.ProductType(), b.ProductVersion(), b.FormatVersion())
		fmt.Println(b.Info)
		fmt.Println(b.Manifest)
		fmt.Println(b.Status)

		return nil
	},
}
