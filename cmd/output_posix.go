//go:build !windows

package cmd

// defaultStatusLineWidth is the width assumed for the status line when the
// output stream isn't a terminal (so its size can't be queried) or the size
// query fails. It matches the minimum width of a VT100 terminal.
const defaultStatusLineWidth = 80
