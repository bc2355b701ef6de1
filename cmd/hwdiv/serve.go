// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/db47h/hwdiv/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(o *options) *cobra.Command {
	var (
		addr string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve divisions over HTTP",
		Long: `Serve divisions over HTTP until interrupted.

  GET  /health
  GET  /config
  POST /divide        {"dividend": 22, "divisor": 7}
  POST /divide/batch  [{"dividend": 22, "divisor": 7}, ...]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("addr") {
				o.cfg.Server.Addr = addr
			}
			if f.Changed("port") {
				o.cfg.Server.Port = port
			}
			if err := o.cfg.Validate(); err != nil {
				return err
			}
			s, err := server.New(o.divider(), o.log)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return s.ListenAndServe(ctx, o.cfg.Server.Addr, o.cfg.Server.Port)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&addr, "addr", "a", "", "address to listen on (default from config)")
	f.IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	return cmd
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
