// Package command defines the exitguard command line.
//
// It uses urfave/cli/v2. Global flags select the configuration file, the
// log level and the output format; the run command starts the daemon and
// the others inspect or signal running daemons.
package command
