package cmd

import (
	"kdscan/internal/model"

	"github.com/spf13/cobra"
)

var (
	checkSubreddit   string
	checkLessSimilar bool
	checkFormat      string
)

var checkCmd = &cobra.Command{
	Use:   "check <image_url>",
	Short: "Search KarmaDecay for one image and print the matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closer, err := newClient(GetConfig())
		if err != nil {
			return err
		}
		defer closer.Close()

		res := client.Query(cmd.Context(), model.Query{
			URL:         args[0],
			Subreddit:   checkSubreddit,
			LessSimilar: checkLessSimilar,
		})
		return writeOutput(cmd.OutOrStdout(), checkFormat, res)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSubreddit, "subreddit", "all", "restrict matches to a subreddit")
	checkCmd.Flags().BoolVar(&checkLessSimilar, "less-similar", false, "also return the less similar matches")
	checkCmd.Flags().StringVar(&checkFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(checkCmd)
}
