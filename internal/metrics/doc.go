// Package metrics exports the session snapshot in the Prometheus text format.
//
// farmer has no listening socket, so metrics go to a file that
// node_exporter's textfile collector picks up. Collector reads the
// state.Store on every gather; Textfile gathers and rewrites the file
// atomically on a fixed interval and once more on shutdown.
package metrics
