package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"kdscan/internal/karmadecay"
	"kdscan/internal/model"

	"github.com/spf13/cobra"
)

var (
	batchSubreddit   string
	batchLessSimilar bool
	batchFormat      string
	batchWorkers     int
)

// batchEntry is one line of batch output.
type batchEntry struct {
	URL    string       `json:"url" yaml:"url"`
	Result model.Result `json:"result" yaml:"result"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <urls_file>",
	Short: "Search KarmaDecay for every image URL listed in a file",
	Long:  "Reads one image URL per line (blank lines and lines starting with # are ignored) and prints the matches for each, in input order. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		urls, err := readTargets(r)
		if err != nil {
			return err
		}

		client, closer, err := newClient(GetConfig())
		if err != nil {
			return err
		}
		defer closer.Close()

		slog.Info("batch: querying", "count", len(urls), "workers", batchWorkers)
		out := runBatch(cmd.Context(), client, urls, batchSubreddit, batchLessSimilar, batchWorkers)
		return writeOutput(cmd.OutOrStdout(), batchFormat, out)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchSubreddit, "subreddit", "all", "restrict matches to a subreddit")
	batchCmd.Flags().BoolVar(&batchLessSimilar, "less-similar", false, "also return the less similar matches")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "output format: json or yaml")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent queries (the rate limit still applies)")
	rootCmd.AddCommand(batchCmd)
}

// readTargets returns the non-empty, non-comment lines of r.
func readTargets(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	return urls, nil
}

// runBatch queries every URL with bounded concurrency and keeps input order.
func runBatch(ctx context.Context, client *karmadecay.Client, urls []string, subreddit string, lessSimilar bool, workers int) []batchEntry {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = 1
	}
	out := make([]batchEntry, len(urls))
	sem := make(chan struct{}, workers)
	done := make(chan struct{}, len(urls))
	for i, u := range urls {
		i, u := i, u
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				done <- struct{}{}
			}()
			res := client.Query(ctx, model.Query{URL: u, Subreddit: subreddit, LessSimilar: lessSimilar})
			out[i] = batchEntry{URL: u, Result: res}
		}()
	}
	for range urls {
		<-done
	}
	return out
}
