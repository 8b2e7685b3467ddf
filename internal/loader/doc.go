// Package loader fetches a playlist summary from the stats service and renders it into a [Display].
//
// Loading is split into explicit steps so the TUI can run the fetch as a bubbletea command:
//  1. [Loader.Activate] trims the raw input, assigns the next sequence number and cancels the previous request.
//  2. [Loader.Run] performs the fetch.
//  3. [Loader.Apply] renders the outcome if it belongs to the latest request and logs it otherwise.
//
// [Loader.Load] chains the three for callers that block, such as the load command.
//
// A failed fetch is logged once at error level and never changes the display. Outcomes of superseded
// requests are dropped and logged at debug level.
package loader
