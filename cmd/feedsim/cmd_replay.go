// FILE: lixenwraith/tradelog/cmd/feedsim/cmd_replay.go
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/tradelog"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Log a recorded feed file without a network listener",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().Bool("retry", false, "Retry when the queue is full instead of dropping")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	retry, _ := cmd.Flags().GetBool("retry")

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	cfg, err := loadLoggerConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := tradelog.New(cfg)
	if err != nil {
		return err
	}

	res, err := replay(logger, in, retry)
	if shutdownErr := logger.Shutdown(5 * time.Second); shutdownErr != nil && err == nil {
		err = shutdownErr
	}

	st := logger.Stats()
	fmt.Fprintf(cmd.ErrOrStderr(), "replayed %d lines, %d parse errors, %d processed, %d dropped\n",
		res.lines, res.parseErrors, st.Processed, st.Dropped)
	return err
}

type replayResult struct {
	lines       int
	parseErrors int
}

// replay reads feed lines from r and logs them. With retry set, a full queue
// is retried until the worker catches up.
func replay(logger *tradelog.Logger, r io.Reader, retry bool) (replayResult, error) {
	var res replayResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	for scanner.Scan() {
		line := scanner.Text()
		m, err := parseLine(line)
		if errors.Is(err, errEmptyLine) {
			continue
		}
		res.lines++
		if err != nil {
			res.parseErrors++
			_ = logger.Error(codeParseError, fmt.Sprintf("line %d: %v", res.lines, err))
			continue
		}
		for {
			err = logger.Log(m)
			if err == nil || !retry || !errors.Is(err, tradelog.ErrQueueFull) {
				break
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
	return res, scanner.Err()
}
