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
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringP("type", "t", "all", "Extraction profile to list files for")
	lsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("ls.type", lsCmd.Flags().Lookup("type"))
	viper.BindPFlag("ls.json", lsCmd.Flags().Lookup("json"))
}

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:           "ls <BACKUP>",
	Short:         "List the manifest rows an extraction profile would pick",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		color.NoColor = !Color

		ex, err := backup.GetExtractor(viper.GetString("ls.type"))
		if err != nil {
			return err
		}

		b, err := backup.Open(args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		files, err := ex.Files(b)
		if err != nil {
			return err
		}

		if viper.GetBool("ls.json") {
			dat, err := json.Marshal(files)
			if err != nil {
				return err
			}
			fmt.Println(string(dat))
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %s\n\n", bold(ex.Name+":"), ex.Description)
		for _, f := range files {
			marker := " "
			if _, ok := b.Index.Resolve(f.FileID); !ok {
				marker = "!" // no content file on disk
			}
			fmt.Printf("%s %s  %-30s %s\n", marker, f.FileID, f.Domain, f.RelativePath)
		}
		fmt.Printf("\n%s files\n", humanize.Comma(int64(len(files))))

		return nil
	},
}
