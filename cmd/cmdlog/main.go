// Command cmdlog is an operator tool for a command log shard: append a
// command, tail live traffic, replay the full history, or serve the shard
// status over HTTP.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shrtyk/cmdlog/api"
	"github.com/shrtyk/cmdlog/cmdlog"
	"github.com/shrtyk/cmdlog/internal/config"
	"github.com/shrtyk/cmdlog/pkg/logger"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "cmdlog",
		Short:         "client tool for a single-shard command log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	root.AddCommand(appendCmd(), tailCmd(), replayCmd(), statusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type client struct {
	log api.CommandLog
	cfg *config.Config
}

func open() (*client, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	ccfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	logEnv := ccfg.Log.Env
	log := logger.NewLogger(logEnv, cfg.Logger.AddSource)

	clog, err := cmdlog.NewBuilder(cfg.Stream.Name).
		WithConfig(ccfg).
		WithLogger(log).
		Build()
	if err != nil {
		return nil, err
	}
	return &client{log: clog, cfg: cfg}, nil
}

func appendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append <type> <entity> <action> <statement>",
		Short: "append one command and wait for its acknowledgment",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.log.Close()

			offset, err := c.log.Append(
				api.CommandID{Type: args[0], Entity: args[1], Action: args[2]},
				api.Command{Statement: args[3]},
			)
			if err != nil {
				return err
			}
			fmt.Printf("appended at offset %d\n", offset)
			return nil
		},
	}
}

func tailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "print newly appended records until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs
				c.log.Close()
			}()

			enc := json.NewEncoder(os.Stdout)
			for {
				records, err := c.log.PollNew(c.cfg.Timings.PollTimeout)
				if err != nil {
					// Close interrupting the poll is the normal way out.
					if errors.Is(err, api.ErrWakeup) || errors.Is(err, api.ErrClosed) {
						return nil
					}
					return err
				}
				for _, rec := range records {
					if err := printRecord(enc, rec); err != nil {
						return err
					}
				}
			}
		},
	}
}

func replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "print the full ordered history of the shard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.log.Close()

			restored, err := c.log.Replay(c.cfg.Timings.ReplayPollTimeout)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			for _, qc := range restored {
				if err := enc.Encode(qc); err != nil {
					return err
				}
			}
			fmt.Fprintf(os.Stderr, "replayed %d commands\n", len(restored))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "serve the shard status as JSON over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.log.Close()

			log := logger.NewLogger(logger.Dev, false)
			handler := cmdlog.NewStatusHandler(
				cmdlog.LogStatus(c.cfg.Stream.Name, c.cfg.Stream.Shard, c.log), log)
			return http.ListenAndServe(addr, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8639", "listen address")
	return cmd
}

func printRecord(enc *json.Encoder, rec api.Record) error {
	out := struct {
		ID        api.CommandID `json:"id"`
		Offset    int64         `json:"offset"`
		Tombstone bool          `json:"tombstone,omitempty"`
		Command   *api.Command  `json:"command,omitempty"`
	}{ID: rec.ID, Offset: rec.Offset}

	if cmd, ok := rec.Payload.Command(); ok {
		out.Command = &cmd
	} else {
		out.Tombstone = true
	}
	return enc.Encode(out)
}
