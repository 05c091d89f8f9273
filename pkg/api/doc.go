// Package api assembles the fsmond daemon.
//
// It builds the process runtime context from the configured graph, creates
// the snapshotter and connects it to its trigger sources: the configured
// signal, the interval timer and POST /v1/snapshot on the administrative
// server. All of them run under one errgroup until the context is done.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	return api.Serve(ctx, cfg, api.WithVersion(version))
//
// When started by systemd with Type=notify the daemon reports READY=1 once
// every trigger is installed, STOPPING=1 on shutdown, and pings the
// watchdog if WatchdogSec is set.
package api
