// Package app is farmer's composition root.
//
// # Overview
//
// Run wires settings, logging, the Steamworks client, the session and the
// terminal UI, then holds the foreground until the session ends. It is the
// only place that knows about launch modes.
//
// # Startup
//
//  1. Load settings (defaults, config.toml, FARMER_* env, launch flags)
//  2. Open the log file
//  3. Preflight: is Steam running?
//  4. Resolve the App ID (argument, steam_appid.txt, then the prompt)
//  5. Persist the App ID
//  6. Start the worker: handshake, then the poll loop
//
// Every failure up to step 6 is returned as a *Failure and ends the process
// before any session exists. Unattended failures are marked Silent; main
// logs them and exits without writing to the terminal.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()                 Settings
//	       ├─────> session.CheckServiceAvailable Preflight
//	       ├─────> appid.Resolver.Resolve()      Argument, file, prompt
//	       ├─────> appidfile.Store.Save()        steam_appid.txt
//	       ├─────> errgroup worker               Start + PollLoop
//	       ├─────> metrics.Textfile.Run()        Optional
//	       └─────> ui.RunIndicator()             Interactive foreground
//
// # Stopping
//
// The foreground owns the cancel func of the worker's context. It cancels
// when the operator presses q, on SIGINT/SIGTERM, or once the session has
// stopped by itself (Steam went away or the loop faulted), then waits for
// the worker so teardown always completes before Run returns.
//
// # Exit Codes
//
// Failure.ExitCode: 2 invalid identifier, 3 Steam not running, 4 App ID file
// not writable, 5 runtime missing, 6 runtime incompatible, 7 handshake
// rejected. Settings errors are plain errors (exit 1 in main).
package app
