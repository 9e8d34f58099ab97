// Package view renders the pieces of the olatui screen: the patch grid,
// the sidebar, tab bar, tables and status line.
//
// Every renderer is a pure function of its inputs so it can be tested
// without a running program. Renderers that take a plain flag produce
// unstyled ASCII for output that is not a terminal.
package view
