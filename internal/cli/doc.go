// Package cli implements the deft command line.
//
// Every command is a cobra.Command built from the shared RootOptions. The
// tracker is found by walking up from the working directory (or
// --directory) to the nearest .deft directory. Output is plain text, CSV
// for tables, or a JSON envelope:
//
//	{"status": "ok", "data": ...}
//	{"status": "error", "error": {"code": "NO_SUCH_FEATURE", "message": "..."}}
//
// Exit codes are ExitSuccess, ExitUserError and ExitUnexpected.
package cli
