// Package cli implements the interactive TaskTracker command-line client.
//
// The REPL reads one command per line:
//
//	register | login | me | logout
//	list | add | edit <n> | done <n> | undo <n> | delete <n>
//	attach <n> <file> | fetch <n> <file>
//	help | exit
//
// <n> is the position of a task in the last "list" output; a raw task id is
// accepted too. The session survives restarts: the refresh token is kept in a
// local SQLite file and exchanged for a new token pair on startup.
package cli
