// Package update coordinates the in-app update flow.
//
// A Coordinator performs one check against a Source. When a newer release
// exists it notifies the front end (updateIsAvailable) and waits for a user
// decision delivered through Decide. Declining ends the run. Accepting starts
// the download, reporting cumulative progress after every chunk, then installs
// the release:
//
//	idle → checking → awaiting-decision → declined
//	                                    → accepted → downloading → installed
//	                                                             → failed
//
// The wait is woken by Decide through a one-slot channel; the decision itself
// lives in an atomic that the waiter re-reads on every wake-up, so a Pending
// decision keeps it waiting. A failed check reports updateThrewError and
// returns to idle without retrying.
//
// ManifestSource implements Source over a JSON release feed and replaces a
// single executable on install.
package update
