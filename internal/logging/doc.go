// Package logging builds the slog loggers a notebook session writes to.
//
// Lines go to stderr and, when a log directory is configured, to
// labbook.log beside it. The console format prefixes each line with the
// component and puts the notebook page and block first among the fields;
// WithPage and WithBlock carry those through a context.
package logging
