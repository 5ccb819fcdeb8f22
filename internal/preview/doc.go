// Package preview serves an open timeline over HTTP so an external
// renderer or a browser can read frame descriptions, sampled automation and
// PNG snapshots while the project is being edited.
//
// The editor is not safe for concurrent use, so every handler runs under
// the server's lock. Hosts that mutate the same editor from elsewhere must
// go through Server.Do.
package preview
